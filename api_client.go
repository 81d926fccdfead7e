package pluginsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User variable types in the host's variables table.
const (
	UserVariableTypeInteger = "0"
	UserVariableTypeFloat   = "1"
	UserVariableTypeString  = "2"
	UserVariableTypeDate    = "3"
	UserVariableTypeTime    = "4"
)

// dzEventsUserVarBreak is the host scripting version where the user-variable
// create call changed from saveuservariable to adduservariable.
const dzEventsUserVarBreak = "2.4.9"

// APIClient talks to the host's JSON API (json.htm). It covers the handful
// of calls plugins commonly need beyond the plugin framework itself, such as
// user variables.
type APIClient struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client
	Logger     Logger
}

// NewAPIClient creates a client for the given host base URL.
func NewAPIClient(baseURL string) *APIClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &APIClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewAPIClientFromParameters builds a client from the plugin's Address,
// Port, Username and Password parameters.
func NewAPIClientFromParameters(p Parameters) *APIClient {
	c := NewAPIClient(fmt.Sprintf("http://%s:%s", p.Address, p.Port))
	c.Username = p.Username
	c.Password = p.Password
	return c
}

// APIResult is the common envelope of json.htm responses.
type APIResult struct {
	Status string          `json:"status"`
	Title  string          `json:"title,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

func (c *APIClient) get(ctx context.Context, query url.Values) ([]byte, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return nil, fmt.Errorf("api client base URL is empty")
	}

	u := c.BaseURL + "/json.htm?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call host api: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("host api failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return b, nil
}

// Call performs one json.htm request and checks the response status field.
func (c *APIClient) Call(ctx context.Context, query url.Values) (*APIResult, error) {
	b, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}

	var out APIResult
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode host api response: %w", err)
	}
	if !strings.EqualFold(out.Status, "OK") {
		return nil, fmt.Errorf("host api returned an error: status = %s", out.Status)
	}
	return &out, nil
}

// VersionInfo describes the running host build.
type VersionInfo struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	DZVentsVersion string `json:"dzvents_version"`
	PythonVersion  string `json:"python_version"`
	BuildTime      string `json:"build_time"`
	Hash           string `json:"hash"`
}

// Version queries the running host build info. getversion reports its fields
// at the top level, next to the status.
func (c *APIClient) Version(ctx context.Context) (*VersionInfo, error) {
	q := url.Values{}
	q.Set("type", "command")
	q.Set("param", "getversion")
	b, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var out VersionInfo
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode version response: %w", err)
	}
	if !strings.EqualFold(out.Status, "OK") {
		return nil, fmt.Errorf("host api returned an error: status = %s", out.Status)
	}
	return &out, nil
}

// UserVariable is one entry of the host's user variables table.
type UserVariable struct {
	Idx   string `json:"idx"`
	Name  string `json:"Name"`
	Type  string `json:"Type"`
	Value string `json:"Value"`
}

// UserVariables lists all user variables.
func (c *APIClient) UserVariables(ctx context.Context) ([]UserVariable, error) {
	q := url.Values{}
	q.Set("type", "command")
	q.Set("param", "getuservariables")
	res, err := c.Call(ctx, q)
	if err != nil {
		return nil, err
	}

	var vars []UserVariable
	if len(res.Result) > 0 {
		if err := json.Unmarshal(res.Result, &vars); err != nil {
			return nil, fmt.Errorf("decode user variables: %w", err)
		}
	}
	return vars, nil
}

// UserVariable returns the variable with the given name, nil when absent.
func (c *APIClient) UserVariable(ctx context.Context, name string) (*UserVariable, error) {
	vars, err := c.UserVariables(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vars {
		if vars[i].Name == name {
			return &vars[i], nil
		}
	}
	return nil, nil
}

// CreateUserVariable creates a string user variable. Hosts with a scripting
// version of 2.4.9 or later take adduservariable; older ones only accept
// saveuservariable.
func (c *APIClient) CreateUserVariable(ctx context.Context, name, value string) error {
	param := "saveuservariable"
	info, err := c.Version(ctx)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Error("unable to fetch host version, assuming pre-2.4.9 variable api", "err", err.Error())
		}
	} else if compareDottedVersions(info.DZVentsVersion, dzEventsUserVarBreak) >= 0 {
		param = "adduservariable"
	}

	q := url.Values{}
	q.Set("type", "command")
	q.Set("param", param)
	q.Set("vname", name)
	q.Set("vtype", UserVariableTypeString)
	q.Set("vvalue", value)
	if _, err := c.Call(ctx, q); err != nil {
		return fmt.Errorf("create user variable %q: %w", name, err)
	}
	return nil
}

// UpdateUserVariable updates an existing string user variable.
func (c *APIClient) UpdateUserVariable(ctx context.Context, name, value string) error {
	q := url.Values{}
	q.Set("type", "command")
	q.Set("param", "updateuservariable")
	q.Set("vname", name)
	q.Set("vtype", UserVariableTypeString)
	q.Set("vvalue", value)
	if _, err := c.Call(ctx, q); err != nil {
		return fmt.Errorf("update user variable %q: %w", name, err)
	}
	return nil
}

// SetUserVariable creates or updates a string user variable.
func (c *APIClient) SetUserVariable(ctx context.Context, name, value string) error {
	existing, err := c.UserVariable(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return c.CreateUserVariable(ctx, name, value)
	}
	return c.UpdateUserVariable(ctx, name, value)
}

// compareDottedVersions compares dotted version strings segment by segment.
// Numeric segments compare numerically, anything else lexically; missing
// segments count as zero.
func compareDottedVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
	}
	return 0
}

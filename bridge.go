package pluginsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	hostrpc "github.com/gaelj/domoticz-plugin-sdk/hostrpc"
)

// Bridge method names. Each Host operation travels as one HostCall.
const (
	methodLog            = "Log.Log"
	methodStatus         = "Log.Status"
	methodError          = "Log.Error"
	methodDebug          = "Log.Debug"
	methodDebugging      = "Framework.Debugging"
	methodHeartbeat      = "Framework.Heartbeat"
	methodNotifier       = "Framework.Notifier"
	methodTrace          = "Framework.Trace"
	methodConfigLoad     = "Configuration.Load"
	methodConfigStore    = "Configuration.Store"
	methodDeviceCreate   = "Device.Create"
	methodDeviceUpdate   = "Device.Update"
	methodDeviceDelete   = "Device.Delete"
	methodDeviceTouch    = "Device.Touch"
	methodDeviceRefresh  = "Device.Refresh"
	methodImageCreate    = "Image.Create"
	methodImageDelete    = "Image.Delete"
	methodConnConnect    = "Connection.Connect"
	methodConnListen     = "Connection.Listen"
	methodConnSend       = "Connection.Send"
	methodConnDisconnect = "Connection.Disconnect"
	methodConnConnecting = "Connection.Connecting"
)

// logCallTimeout bounds the fire-and-forget log calls, which carry no
// caller context.
const logCallTimeout = 3 * time.Second

// RemoteHost implements Host for plugins running out of process: every
// operation is forwarded unchanged to the host bridge over gRPC, and bridge
// failures surface unchanged to the caller.
type RemoteHost struct {
	pluginKey string
	cc        *grpc.ClientConn
	c         hostrpc.PluginHostServiceClient
	logger    Logger
}

// DialRemoteHost connects a plugin to the host bridge.
// addr format: unix:///tmp/dzbridge.sock or host:port.
func DialRemoteHost(addr, pluginKey string, logger Logger) (*RemoteHost, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial host bridge: %w", err)
	}
	return &RemoteHost{
		pluginKey: pluginKey,
		cc:        conn,
		c:         hostrpc.NewPluginHostServiceClient(conn),
		logger:    logger,
	}, nil
}

// Close releases the bridge connection.
func (r *RemoteHost) Close() error { return r.cc.Close() }

// RequireBridgeAddrFromEnv reads the bridge address from the environment.
func RequireBridgeAddrFromEnv(getenv func(string) string) (string, error) {
	addr := getenv("DZ_BRIDGE_GRPC_ADDR")
	if addr == "" {
		return "", fmt.Errorf("DZ_BRIDGE_GRPC_ADDR is required")
	}
	return addr, nil
}

func (r *RemoteHost) call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	var argsJSON []byte
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal %s args: %w", method, err)
		}
		argsJSON = b
	}

	resp, err := r.c.HostCall(ctx, &hostrpc.HostCallRequest{
		PluginKey:     r.pluginKey,
		Method:        method,
		ArgsJson:      argsJSON,
		CorrelationId: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s: %s", method, resp.Message)
	}
	return resp.ResultJson, nil
}

// fireLog forwards a log line without a caller context. Delivery failures
// only reach the SDK logger; the host log call itself has no error channel.
func (r *RemoteHost) fireLog(method, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), logCallTimeout)
	defer cancel()
	if _, err := r.call(ctx, method, map[string]string{"message": msg}); err != nil {
		if r.logger != nil {
			r.logger.Debug("host log call failed", "method", method, "err", err.Error())
		}
	}
}

func (r *RemoteHost) Log(msg string)    { r.fireLog(methodLog, msg) }
func (r *RemoteHost) Status(msg string) { r.fireLog(methodStatus, msg) }
func (r *RemoteHost) Error(msg string)  { r.fireLog(methodError, msg) }
func (r *RemoteHost) Debug(msg string)  { r.fireLog(methodDebug, msg) }

func (r *RemoteHost) SetDebugLevels(ctx context.Context, levels ...DebugLevel) error {
	mask := CombineDebugLevels(levels)
	_, err := r.call(ctx, methodDebugging, map[string]int{"mask": int(mask)})
	return err
}

func (r *RemoteHost) SetHeartbeat(ctx context.Context, interval time.Duration) error {
	_, err := r.call(ctx, methodHeartbeat, map[string]int{"seconds": int(interval / time.Second)})
	return err
}

func (r *RemoteHost) RegisterNotifier(ctx context.Context, name string) error {
	_, err := r.call(ctx, methodNotifier, map[string]string{"name": name})
	return err
}

func (r *RemoteHost) SetTrace(ctx context.Context, enabled bool) error {
	_, err := r.call(ctx, methodTrace, map[string]bool{"enabled": enabled})
	return err
}

func (r *RemoteHost) LoadConfiguration(ctx context.Context) (PluginConfig, error) {
	result, err := r.call(ctx, methodConfigLoad, nil)
	if err != nil {
		return PluginConfig{}, err
	}
	return NewPluginConfig(result), nil
}

func (r *RemoteHost) StoreConfiguration(ctx context.Context, cfg PluginConfig) error {
	_, err := r.call(ctx, methodConfigStore, json.RawMessage(cfg.Raw()))
	return err
}

func (r *RemoteHost) CreateDevice(ctx context.Context, spec DeviceSpec) error {
	_, err := r.call(ctx, methodDeviceCreate, spec)
	return err
}

func (r *RemoteHost) UpdateDevice(ctx context.Context, unit int, upd DeviceUpdate) error {
	_, err := r.call(ctx, methodDeviceUpdate, struct {
		Unit   int          `json:"unit"`
		Update DeviceUpdate `json:"update"`
	}{Unit: unit, Update: upd})
	return err
}

func (r *RemoteHost) DeleteDevice(ctx context.Context, unit int) error {
	_, err := r.call(ctx, methodDeviceDelete, map[string]int{"unit": unit})
	return err
}

func (r *RemoteHost) TouchDevice(ctx context.Context, unit int) error {
	_, err := r.call(ctx, methodDeviceTouch, map[string]int{"unit": unit})
	return err
}

func (r *RemoteHost) RefreshDevice(ctx context.Context, unit int) (DeviceState, error) {
	result, err := r.call(ctx, methodDeviceRefresh, map[string]int{"unit": unit})
	if err != nil {
		return DeviceState{}, err
	}
	var state DeviceState
	if err := json.Unmarshal(result, &state); err != nil {
		return DeviceState{}, fmt.Errorf("decode device state: %w", err)
	}
	return state, nil
}

func (r *RemoteHost) CreateImage(ctx context.Context, filename string) error {
	_, err := r.call(ctx, methodImageCreate, map[string]string{"filename": filename})
	return err
}

func (r *RemoteHost) DeleteImage(ctx context.Context, base string) error {
	_, err := r.call(ctx, methodImageDelete, map[string]string{"base": base})
	return err
}

func (r *RemoteHost) Connect(ctx context.Context, spec ConnectionSpec) error {
	_, err := r.call(ctx, methodConnConnect, spec)
	return err
}

func (r *RemoteHost) Listen(ctx context.Context, spec ConnectionSpec) error {
	_, err := r.call(ctx, methodConnListen, spec)
	return err
}

func (r *RemoteHost) Send(ctx context.Context, name string, payload []byte, delay time.Duration) error {
	_, err := r.call(ctx, methodConnSend, struct {
		Name    string `json:"name"`
		Payload []byte `json:"payload"`
		DelayMs int64  `json:"delay_ms,omitempty"`
	}{Name: name, Payload: payload, DelayMs: int64(delay / time.Millisecond)})
	return err
}

func (r *RemoteHost) Disconnect(ctx context.Context, name string) error {
	_, err := r.call(ctx, methodConnDisconnect, map[string]string{"name": name})
	return err
}

func (r *RemoteHost) Connecting(ctx context.Context, name string) (bool, error) {
	result, err := r.call(ctx, methodConnConnecting, map[string]string{"name": name})
	if err != nil {
		return false, err
	}
	var out struct {
		Connecting bool `json:"connecting"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		return false, fmt.Errorf("decode connecting response: %w", err)
	}
	return out.Connecting, nil
}

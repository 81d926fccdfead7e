package pluginsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// UserVariableStore caches the host's user variables table and lets a plugin
// stash JSON state in a named variable. The host remains the source of
// truth; the cache only avoids hammering the JSON API.
type UserVariableStore struct {
	mu              sync.RWMutex
	client          *APIClient
	logger          Logger
	vars            map[string]UserVariable
	varsAt          time.Time
	refreshInterval time.Duration
}

// UserVariableStoreConfig holds configuration for the store.
type UserVariableStoreConfig struct {
	Client          *APIClient
	Logger          Logger
	RefreshInterval time.Duration // cache lifetime (default: 30s)
}

// NewUserVariableStore creates a store over an API client.
func NewUserVariableStore(cfg UserVariableStoreConfig) *UserVariableStore {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &UserVariableStore{
		client:          cfg.Client,
		logger:          cfg.Logger,
		vars:            make(map[string]UserVariable),
		refreshInterval: interval,
	}
}

// Refresh re-reads the variables table from the host.
func (s *UserVariableStore) Refresh(ctx context.Context) error {
	vars, err := s.client.UserVariables(ctx)
	if err != nil {
		return fmt.Errorf("refresh user variables: %w", err)
	}

	s.mu.Lock()
	s.vars = make(map[string]UserVariable, len(vars))
	for _, v := range vars {
		s.vars[v.Name] = v
	}
	s.varsAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *UserVariableStore) ensureFresh(ctx context.Context) {
	s.mu.RLock()
	stale := time.Since(s.varsAt) > s.refreshInterval
	s.mu.RUnlock()

	if stale {
		if err := s.Refresh(ctx); err != nil && s.logger != nil {
			s.logger.Debug("user variable refresh failed", "err", err.Error())
		}
	}
}

// Get returns the cached variable by name.
func (s *UserVariableStore) Get(ctx context.Context, name string) (UserVariable, bool) {
	s.ensureFresh(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Set creates or updates a string variable and refreshes the cache entry.
func (s *UserVariableStore) Set(ctx context.Context, name, value string) error {
	if err := s.client.SetUserVariable(ctx, name, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.vars[name] = UserVariable{Name: name, Type: UserVariableTypeString, Value: value}
	s.mu.Unlock()
	return nil
}

// GetJSON decodes a JSON-valued variable into v. Returns false when the
// variable does not exist.
func (s *UserVariableStore) GetJSON(ctx context.Context, name string, v any) (bool, error) {
	uv, ok := s.Get(ctx, name)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(uv.Value), v); err != nil {
		return true, fmt.Errorf("decode user variable %q: %w", name, err)
	}
	return true, nil
}

// SetJSON stores v JSON-encoded in the named variable.
func (s *UserVariableStore) SetJSON(ctx context.Context, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode user variable %q: %w", name, err)
	}
	return s.Set(ctx, name, string(b))
}

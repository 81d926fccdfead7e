package pluginsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Host event types delivered over the bridge. They map one-to-one onto the
// host's plugin callback set.
const (
	EventTypeStop           = "stop"
	EventTypeHeartbeat      = "heartbeat"
	EventTypeCommand        = "command"
	EventTypeConnect        = "connect"
	EventTypeMessage        = "message"
	EventTypeDisconnect     = "disconnect"
	EventTypeNotification   = "notification"
	EventTypeDeviceAdded    = "device_added"
	EventTypeDeviceModified = "device_modified"
	EventTypeDeviceRemoved  = "device_removed"
	EventTypeSecurity       = "security"
)

// HostEvent is one callback invocation the host queued for the plugin.
type HostEvent struct {
	ID        int64           `json:"id"`
	PluginKey string          `json:"plugin_key"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload_json"`
	TSUnixMs  int64           `json:"ts_unix_ms"`
}

// EventHandler handles one incoming host event.
type EventHandler interface {
	Handle(ctx context.Context, ev HostEvent) error
}

// EventHandlerFunc is a function-based event handler.
type EventHandlerFunc func(ctx context.Context, ev HostEvent) error

type simpleEventHandler struct {
	fn EventHandlerFunc
}

func (h *simpleEventHandler) Handle(ctx context.Context, ev HostEvent) error {
	return h.fn(ctx, ev)
}

// EventDispatcher long-polls the host bridge for queued callback events and
// dispatches them to registered handlers. The host owns ordering and
// queueing; the dispatcher only delivers.
type EventDispatcher struct {
	pluginKey  string
	baseURL    string
	httpClient *http.Client
	logger     Logger

	handlersMu sync.RWMutex
	handlers   map[string][]EventHandler // event type -> handlers

	afterID int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// EventDispatcherConfig holds configuration for the dispatcher.
type EventDispatcherConfig struct {
	PluginKey  string
	BaseURL    string       // host bridge HTTP address
	HTTPClient *http.Client // optional custom HTTP client
	Logger     Logger       // optional logger
}

// NewEventDispatcher creates a dispatcher for one plugin instance.
func NewEventDispatcher(cfg EventDispatcherConfig) (*EventDispatcher, error) {
	pluginKey := strings.TrimSpace(cfg.PluginKey)
	if pluginKey == "" {
		return nil, fmt.Errorf("plugin key is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("DZ_BRIDGE_HTTP_ADDR"))
	}
	if baseURL == "" {
		baseURL = "http://127.0.0.1:9876"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// Must exceed the maximum long-poll wait (30s).
			Timeout: 40 * time.Second,
		}
	}

	return &EventDispatcher{
		pluginKey:  pluginKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
		handlers:   make(map[string][]EventHandler),
		stopCh:     make(chan struct{}),
	}, nil
}

// PluginKey returns the plugin key the dispatcher polls for.
func (d *EventDispatcher) PluginKey() string { return d.pluginKey }

// RegisterHandler registers a handler for an event type. Use "*" to handle
// every event type.
func (d *EventDispatcher) RegisterHandler(eventType string, handler EventHandler) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// RegisterHandlerFunc registers a function handler for an event type.
func (d *EventDispatcher) RegisterHandlerFunc(eventType string, fn EventHandlerFunc) {
	d.RegisterHandler(eventType, &simpleEventHandler{fn: fn})
}

// AttachPlugin wires the standard host callbacks to the plugin's Plugin
// interface, plus any of the optional handler interfaces it implements.
func (d *EventDispatcher) AttachPlugin(p Plugin, pc *PluginContext) {
	d.RegisterHandlerFunc(EventTypeStop, func(ctx context.Context, ev HostEvent) error {
		return p.OnStop(ctx)
	})
	d.RegisterHandlerFunc(EventTypeHeartbeat, func(ctx context.Context, ev HostEvent) error {
		return p.OnHeartbeat(ctx)
	})
	d.RegisterHandlerFunc(EventTypeCommand, func(ctx context.Context, ev HostEvent) error {
		cmd, err := ParsePayload[CommandEvent](ev.Payload)
		if err != nil {
			return fmt.Errorf("parse command payload: %w", err)
		}
		return p.OnCommand(ctx, *cmd)
	})

	if ch, ok := p.(ConnectionHandler); ok {
		d.RegisterHandlerFunc(EventTypeConnect, func(ctx context.Context, ev HostEvent) error {
			ce, err := ParsePayload[ConnectionEvent](ev.Payload)
			if err != nil {
				return err
			}
			return ch.OnConnect(ctx, *ce)
		})
		d.RegisterHandlerFunc(EventTypeMessage, func(ctx context.Context, ev HostEvent) error {
			me, err := ParsePayload[MessageEvent](ev.Payload)
			if err != nil {
				return err
			}
			return ch.OnMessage(ctx, *me)
		})
		d.RegisterHandlerFunc(EventTypeDisconnect, func(ctx context.Context, ev HostEvent) error {
			ce, err := ParsePayload[ConnectionEvent](ev.Payload)
			if err != nil {
				return err
			}
			return ch.OnDisconnect(ctx, *ce)
		})
	}

	if nh, ok := p.(NotificationHandler); ok {
		d.RegisterHandlerFunc(EventTypeNotification, func(ctx context.Context, ev HostEvent) error {
			ne, err := ParsePayload[NotificationEvent](ev.Payload)
			if err != nil {
				return err
			}
			return nh.OnNotification(ctx, *ne)
		})
	}

	if sh, ok := p.(SecurityEventHandler); ok {
		d.RegisterHandlerFunc(EventTypeSecurity, func(ctx context.Context, ev HostEvent) error {
			se, err := ParsePayload[SecurityEvent](ev.Payload)
			if err != nil {
				return err
			}
			return sh.OnSecurityEvent(ctx, *se)
		})
	}

	deh, hasDeviceHandler := p.(DeviceEventHandler)
	d.RegisterHandlerFunc(EventTypeDeviceAdded, func(ctx context.Context, ev HostEvent) error {
		state, err := ParsePayload[DeviceState](ev.Payload)
		if err != nil {
			return err
		}
		if pc != nil {
			pc.Devices.ApplyState(pc.Deps.Host, *state)
		}
		if hasDeviceHandler {
			return deh.OnDeviceAdded(ctx, *state)
		}
		return nil
	})
	d.RegisterHandlerFunc(EventTypeDeviceModified, func(ctx context.Context, ev HostEvent) error {
		state, err := ParsePayload[DeviceState](ev.Payload)
		if err != nil {
			return err
		}
		if pc != nil {
			pc.Devices.ApplyState(pc.Deps.Host, *state)
		}
		if hasDeviceHandler {
			return deh.OnDeviceModified(ctx, *state)
		}
		return nil
	})
	d.RegisterHandlerFunc(EventTypeDeviceRemoved, func(ctx context.Context, ev HostEvent) error {
		rm, err := ParsePayload[DeviceRemovedEvent](ev.Payload)
		if err != nil {
			return err
		}
		if pc != nil {
			pc.Devices.Remove(rm.Unit)
		}
		if hasDeviceHandler {
			return deh.OnDeviceRemoved(ctx, rm.Unit)
		}
		return nil
	})
}

// Start begins polling for events. Existing queued events are skipped so a
// restarted plugin does not replay history.
func (d *EventDispatcher) Start(ctx context.Context) error {
	d.fastForward()

	d.wg.Add(1)
	go d.pollLoop()

	return nil
}

// Stop stops the dispatcher.
func (d *EventDispatcher) Stop(ctx context.Context) error {
	close(d.stopCh)
	d.wg.Wait()
	return nil
}

func (d *EventDispatcher) fastForward() {
	after := d.afterID
	for i := 0; i < 6; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		events, err := d.poll(ctx, after, 0, 500)
		cancel()
		if err != nil {
			return
		}
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			if ev.ID > after {
				after = ev.ID
			}
		}
	}
	d.afterID = after
}

func (d *EventDispatcher) pollLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		events, err := d.poll(ctx, d.afterID, 10*time.Second, 200)
		cancel()

		if err != nil {
			if d.logger != nil {
				d.logger.Debug("event poll failed", "err", err.Error())
			}
			time.Sleep(750 * time.Millisecond)
			continue
		}

		for _, ev := range events {
			if ev.ID > d.afterID {
				d.afterID = ev.ID
			}
			d.dispatch(ev)
		}
	}
}

func (d *EventDispatcher) poll(ctx context.Context, afterID int64, wait time.Duration, limit int) ([]HostEvent, error) {
	if limit <= 0 {
		limit = 200
	}
	if wait > 30*time.Second {
		wait = 30 * time.Second
	}

	url := fmt.Sprintf("%s/v1/plugin-events?plugin_key=%s&after_id=%d&limit=%d",
		d.baseURL, d.pluginKey, afterID, limit)
	if wait > 0 {
		url += fmt.Sprintf("&wait_ms=%d", int64(wait/time.Millisecond))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("poll failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out struct {
		Events []HostEvent `json:"events"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out.Events, nil
}

func (d *EventDispatcher) dispatch(ev HostEvent) {
	// Events for other plugin instances are not ours to handle.
	if ev.PluginKey != "" && !strings.EqualFold(strings.TrimSpace(ev.PluginKey), d.pluginKey) {
		return
	}

	d.handlersMu.RLock()
	allHandlers := make([]EventHandler, 0, len(d.handlers[ev.Type])+len(d.handlers["*"]))
	allHandlers = append(allHandlers, d.handlers[ev.Type]...)
	allHandlers = append(allHandlers, d.handlers["*"]...)
	d.handlersMu.RUnlock()

	if len(allHandlers) == 0 {
		if d.logger != nil {
			d.logger.Debug("no handler for event", "type", ev.Type, "id", ev.ID)
		}
		return
	}

	ctx := context.Background()
	for _, handler := range allHandlers {
		if err := handler.Handle(ctx, ev); err != nil {
			if d.logger != nil {
				d.logger.Debug("event handle failed", "type", ev.Type, "err", err.Error())
			}
		}
	}
}

package pluginsdk

import (
	"context"
	"fmt"
	"time"
)

// Transport names the host connection transports.
type Transport string

const (
	TransportTCP    Transport = "TCP/IP"
	TransportTLS    Transport = "TLS/IP"
	TransportUDP    Transport = "UDP/IP"
	TransportICMP   Transport = "ICMP/IP"
	TransportSerial Transport = "Serial"
)

// ConnProtocol names the framing protocols the host uses to split inbound
// data into messages for the plugin.
type ConnProtocol string

const (
	ConnProtocolNone  ConnProtocol = "None"
	ConnProtocolLine  ConnProtocol = "Line"
	ConnProtocolJSON  ConnProtocol = "JSON"
	ConnProtocolXML   ConnProtocol = "XML"
	ConnProtocolHTTP  ConnProtocol = "HTTP"
	ConnProtocolHTTPS ConnProtocol = "HTTPS"
	ConnProtocolMQTT  ConnProtocol = "MQTT"
	ConnProtocolMQTTS ConnProtocol = "MQTTS"
	ConnProtocolICMP  ConnProtocol = "ICMP"
)

// DefaultBaud is the serial baud rate the host assumes when none is given.
const DefaultBaud = 115200

// ConnectionSpec describes a host connection. For incoming connections the
// host assigns a unique name.
type ConnectionSpec struct {
	Name      string
	Transport Transport
	Protocol  ConnProtocol
	Address   string
	Port      string
	Baud      int
	// Parent is set by the host on incoming connections to the name of the
	// listening connection.
	Parent string
}

// Connection wraps one host connection. The host owns the socket; every
// operation passes through.
type Connection struct {
	host ConnectionHost
	spec ConnectionSpec
}

// NewConnection binds a connection spec to a host. Serial connections
// default to DefaultBaud.
func NewConnection(host ConnectionHost, spec ConnectionSpec) *Connection {
	if spec.Transport == TransportSerial && spec.Baud == 0 {
		spec.Baud = DefaultBaud
	}
	return &Connection{host: host, spec: spec}
}

// Spec returns the connection description.
func (c *Connection) Spec() ConnectionSpec { return c.spec }

// Name returns the connection name.
func (c *Connection) Name() string { return c.spec.Name }

// Connect asks the host to establish the connection. The outcome arrives via
// the plugin's OnConnect callback.
func (c *Connection) Connect(ctx context.Context) error {
	if err := c.host.Connect(ctx, c.spec); err != nil {
		return fmt.Errorf("connect %q: %w", c.spec.Name, err)
	}
	return nil
}

// Listen asks the host to listen on the spec's port. The host creates a
// connection per client and reports each through OnConnect.
func (c *Connection) Listen(ctx context.Context) error {
	if err := c.host.Listen(ctx, c.spec); err != nil {
		return fmt.Errorf("listen %q: %w", c.spec.Name, err)
	}
	return nil
}

// SendOption configures a send.
type SendOption func(*sendConfig)

type sendConfig struct {
	Delay time.Duration
}

// WithDelay delays the send on the host side. The host processes other
// events in the meantime, so delayed sends can complete out of order.
func WithDelay(d time.Duration) SendOption {
	return func(c *sendConfig) { c.Delay = d }
}

// Send hands a payload to the host for transmission.
func (c *Connection) Send(ctx context.Context, payload []byte, opts ...SendOption) error {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := c.host.Send(ctx, c.spec.Name, payload, cfg.Delay); err != nil {
		return fmt.Errorf("send on %q: %w", c.spec.Name, err)
	}
	return nil
}

// Disconnect terminates the connection, including listening connections for
// all transports.
func (c *Connection) Disconnect(ctx context.Context) error {
	if err := c.host.Disconnect(ctx, c.spec.Name); err != nil {
		return fmt.Errorf("disconnect %q: %w", c.spec.Name, err)
	}
	return nil
}

// Connecting reports whether a connect was requested but has not completed
// or failed yet.
func (c *Connection) Connecting(ctx context.Context) (bool, error) {
	return c.host.Connecting(ctx, c.spec.Name)
}

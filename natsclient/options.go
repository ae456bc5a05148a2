package natsclient

import (
	"time"

	"github.com/beroset/HELICS/metric"
)

// Logger is the minimal logging surface Client needs. log/slog's *Logger
// does not implement this directly; WithLogger adapts one via SlogAdapter.
type Logger interface {
	Printf(format string, args ...any)
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// defaultLogger discards everything; used until WithLogger is supplied.
type defaultLogger struct{}

func (defaultLogger) Printf(string, ...any) {}
func (defaultLogger) Debugf(string, ...any) {}
func (defaultLogger) Errorf(string, ...any) {}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client) error

// WithLogger installs a custom Logger.
func WithLogger(l Logger) ClientOption {
	return func(c *Client) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithTimeout sets the connection and per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithMaxReconnects sets the reconnect attempt ceiling; -1 means unlimited.
func WithMaxReconnects(n int) ClientOption {
	return func(c *Client) error {
		c.maxReconnects = n
		return nil
	}
}

// WithReconnectWait sets the delay between reconnect attempts.
func WithReconnectWait(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.reconnectWait = d
		return nil
	}
}

// WithPingInterval sets the keep-alive ping interval.
func WithPingInterval(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.pingInterval = d
		return nil
	}
}

// WithDrainTimeout sets how long Close waits for in-flight messages to drain.
func WithDrainTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.drainTimeout = d
		return nil
	}
}

// WithCredentials sets username/password authentication.
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithToken sets token authentication.
func WithToken(token string) ClientOption {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// WithTLS enables TLS with an optional client certificate and CA file.
func WithTLS(certFile, keyFile, caFile string) ClientOption {
	return func(c *Client) error {
		c.tlsEnabled = true
		c.tlsCertFile = certFile
		c.tlsKeyFile = keyFile
		c.tlsCAFile = caFile
		return nil
	}
}

// WithClientName sets the name NATS reports for this connection.
func WithClientName(name string) ClientOption {
	return func(c *Client) error {
		c.clientName = name
		return nil
	}
}

// WithCompression enables wire compression.
func WithCompression() ClientOption {
	return func(c *Client) error {
		c.compression = true
		return nil
	}
}

// WithMetrics wires m's connection-level gauges/counters (NATSConnected,
// NATSReconnects) to this Client's connect/disconnect/reconnect transitions.
func WithMetrics(m *metric.Metrics) ClientOption {
	return func(c *Client) error {
		c.platformMetrics = m
		return nil
	}
}

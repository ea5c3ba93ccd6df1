package natsclient

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
)

const (
	// reconnect jitter
	reconnectJitter = 10 * time.Second

	// reconnect wait between attempts
	reconnectWait = 2 * time.Second
)

// Client holds the single process-wide NATS connection and its JetStream
// handle. It is safe for concurrent use; the nats.go client multiplexes all
// operations over one TCP session and reconnects in the background.
type Client struct {
	conn *nats.Conn
	js   jetstream.JetStream
	url  string
}

// New connects to the broker and initializes JetStream. Connection failure or
// missing TLS material is fatal configuration: the caller is expected to
// terminate the process rather than run half-initialised.
func New(cfg models.NATSConfig) (*Client, error) {
	opts, err := connectOptions(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Client{conn: conn, js: js, url: cfg.URL}, nil
}

func connectOptions(cfg models.NATSConfig) ([]nats.Option, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	opts := []nats.Option{
		nats.Timeout(timeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
		nats.ReconnectJitter(reconnectJitter, reconnectJitter),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", logger.Err(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", logger.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	if cfg.CAFile != "" {
		if _, err := os.Stat(cfg.CAFile); err != nil {
			return nil, fmt.Errorf("NATS CA file not readable: %w", err)
		}
		opts = append(opts, nats.RootCAs(cfg.CAFile))
	}

	if cfg.CertFile != "" || cfg.KeyFile != "" {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return nil, fmt.Errorf("NATS client TLS requires both a cert and a key file")
		}
		for _, f := range []string{cfg.CertFile, cfg.KeyFile} {
			if _, err := os.Stat(f); err != nil {
				return nil, fmt.Errorf("NATS client certificate file not readable: %w", err)
			}
		}
		opts = append(opts, nats.ClientCert(cfg.CertFile, cfg.KeyFile))
	}

	return opts, nil
}

// Conn returns the underlying NATS connection
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// JetStream returns the JetStream handle
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// URL returns the configured broker URL
func (c *Client) URL() string {
	return c.url
}

// IsConnected reports whether the connection is currently established
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// JetStreamAvailable reports whether the JetStream API answers
func (c *Client) JetStreamAvailable(ctx context.Context) bool {
	if c.js == nil {
		return false
	}
	_, err := c.js.AccountInfo(ctx)
	return err == nil
}

// Close drains and closes the connection
func (c *Client) Close() {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
		}
	}
}

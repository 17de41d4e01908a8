package denonprotocol

import (
	"context"
	"net"

	"go.uber.org/zap"
)

// DialContextFunc opens the transport connection for a client.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger      *zap.Logger
	onSend      func(Command)
	onReceive   func(Event)
	dialContext DialContextFunc
}

// WithLogger sets a structured logger for the client.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithOnSend sets a callback invoked after each command is written.
func WithOnSend(fn func(Command)) ClientOption {
	return func(c *clientConfig) {
		c.onSend = fn
	}
}

// WithOnReceive sets a callback invoked for each event before it is dispatched.
func WithOnReceive(fn func(Event)) ClientOption {
	return func(c *clientConfig) {
		c.onReceive = fn
	}
}

// WithDialContext replaces the function used to open the TCP connection.
func WithDialContext(fn DialContextFunc) ClientOption {
	return func(c *clientConfig) {
		c.dialContext = fn
	}
}

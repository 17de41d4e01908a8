package denonprotocol

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DisconnectHandler is called when the connection is lost without a call
// to Disconnect.
type DisconnectHandler func(err error)

// Client is a TCP client for a receiver's control port.
//
// Commands are written with Send. Request writes a command and blocks until
// the next status line arrives, which it returns as the response. The
// protocol carries no correlation identifier, so an unsolicited status line
// arriving in that window is taken as the response. Only one request is in
// flight at a time; concurrent callers of Request are served one after the
// other.
//
// Every received line is also handed to the Dispatcher, if one is set. The
// dispatcher runs on the reader goroutine: listeners must not call Request
// or Disconnect.
//
// Client is safe for concurrent use from multiple goroutines.
type Client struct {
	addr   string
	cfg    clientConfig
	logger *zap.Logger

	// lifecycleMu serializes Connect and Disconnect.
	lifecycleMu sync.Mutex
	// requestMu admits one outstanding request.
	requestMu sync.Mutex
	// writeMu serializes writes to the socket.
	writeMu sync.Mutex

	mu          sync.Mutex
	conn        net.Conn
	writer      *bufio.Writer
	isConnected bool

	dispatcher        Dispatcher
	disconnectHandler DisconnectHandler

	// pending receives the next event while a request is waiting.
	pending chan Event
	// closed is closed when the current reader loop stops.
	closed     chan struct{}
	readerDone chan struct{}
}

// NewClient creates a client for the receiver at host:port. An empty host
// or a non-positive port selects DefaultHost or DefaultPort.
func NewClient(host string, port int, opts ...ClientOption) *Client {
	cfg := clientConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.dialContext == nil {
		var d net.Dialer
		cfg.dialContext = d.DialContext
	}

	addr := Address(host, port)
	return &Client{
		addr:   addr,
		cfg:    cfg,
		logger: cfg.logger.With(zap.String("addr", addr)),
	}
}

// Addr returns the receiver address in host:port form.
func (c *Client) Addr() string {
	return c.addr
}

// SetDispatcher sets the fan-out target for received events. Events that
// arrive while no dispatcher is set are not dispatched but still answer a
// pending request.
func (c *Client) SetDispatcher(d Dispatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatcher = d
}

// SetDisconnectHandler sets the callback for connection loss.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectHandler = handler
}

// IsConnected returns true if the client is currently connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Connect connects to the receiver, giving up after timeout. A zero
// timeout waits for as long as the operating system does.
func (c *Client) Connect(timeout time.Duration) error {
	return c.ConnectWithContext(context.Background(), timeout)
}

// ConnectWithContext connects to the receiver with a context for cancellation.
func (c *Client) ConnectWithContext(ctx context.Context, timeout time.Duration) error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.IsConnected() {
		return &ConnectError{Addr: c.addr, Err: ErrAlreadyConnected}
	}

	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := c.cfg.dialContext(dialCtx, "tcp", c.addr)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Addr: c.addr, Timeout: timeout, Err: err}
		}
		return &ConnectError{Addr: c.addr, Err: err}
	}

	// The reader blocks on the socket for the lifetime of the connection.
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return &ConnectError{Addr: c.addr, Err: err}
	}

	closed := make(chan struct{})
	done := make(chan struct{})

	c.mu.Lock()
	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.isConnected = true
	c.pending = nil
	c.closed = closed
	c.readerDone = done
	c.mu.Unlock()

	go c.readLoop(conn, closed, done)

	c.logger.Info("connected")
	return nil
}

// Disconnect closes the connection and waits for the reader loop to stop.
// It does nothing if the client is not connected.
func (c *Client) Disconnect() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	conn := c.conn
	done := c.readerDone
	c.conn = nil
	c.writer = nil
	c.pending = nil
	c.mu.Unlock()

	if err := conn.Close(); err != nil {
		c.logger.Debug("disconnect failure", zap.Error(err))
	}

	// Wait for reader to finish (outside lock to avoid deadlock)
	<-done

	c.logger.Info("disconnected")
}

// Send writes cmd to the receiver without waiting for a response.
func (c *Client) Send(cmd Command) error {
	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return &ConnectionError{Op: "send", Err: ErrNotConnected}
	}
	w := c.writer
	c.mu.Unlock()

	return c.write(w, cmd)
}

// Request writes cmd and blocks until the next event arrives, which it
// returns as the response. It fails with an *ExecutionError if the
// connection closes first.
func (c *Client) Request(cmd Command) (Event, error) {
	return c.RequestWithContext(context.Background(), cmd)
}

// RequestWithTimeout is Request bounded by timeout.
func (c *Client) RequestWithTimeout(cmd Command, timeout time.Duration) (Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.RequestWithContext(ctx, cmd)
}

// RequestWithContext is Request with a context for cancellation/timeout.
func (c *Client) RequestWithContext(ctx context.Context, cmd Command) (Event, error) {
	if cmd.ID == "" {
		cmd = cmd.WithID()
	}

	c.requestMu.Lock()
	defer c.requestMu.Unlock()

	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return Event{}, &ConnectionError{Op: "request", Err: ErrNotConnected}
	}
	slot := make(chan Event, 1)
	c.pending = slot
	w := c.writer
	closed := c.closed
	c.mu.Unlock()

	defer c.clearPending(slot)

	if err := c.write(w, cmd); err != nil {
		return Event{}, err
	}

	select {
	case event := <-slot:
		c.logger.Debug("response received",
			zap.String("id", cmd.ID),
			zap.String("event", event.Raw()),
		)
		return event, nil
	case <-closed:
		// The last line before the close may still have been delivered.
		select {
		case event := <-slot:
			return event, nil
		default:
		}
		return Event{}, &ExecutionError{Op: "request " + cmd.Signature(), Err: ErrConnectionClosed}
	case <-ctx.Done():
		return Event{}, &ExecutionError{Op: "request " + cmd.Signature(), Err: ctx.Err()}
	}
}

func (c *Client) write(w *bufio.Writer, cmd Command) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := w.WriteString(cmd.FormatLine()); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	if err := w.Flush(); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}

	if c.cfg.onSend != nil {
		c.cfg.onSend(cmd)
	}
	c.logger.Debug("command sent",
		zap.String("command", cmd.Signature()),
		zap.Stringer("kind", cmd.Kind()),
		zap.String("id", cmd.ID),
	)
	return nil
}

func (c *Client) clearPending(slot chan Event) {
	c.mu.Lock()
	if c.pending == slot {
		c.pending = nil
	}
	c.mu.Unlock()
}

// received is called by the reader loop for every decoded event.
func (c *Client) received(event Event) {
	c.logger.Debug("event received", zap.String("event", event.Raw()))

	if c.cfg.onReceive != nil {
		c.cfg.onReceive(event)
	}

	c.mu.Lock()
	d := c.dispatcher
	c.mu.Unlock()

	if d != nil {
		c.dispatch(d, event)
	}

	c.mu.Lock()
	slot := c.pending
	c.pending = nil
	c.mu.Unlock()

	if slot != nil {
		slot <- event
	}
}

func (c *Client) dispatch(d Dispatcher, event Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("error invoking event dispatcher",
				zap.String("event", event.Raw()),
				zap.Any("panic", r),
			)
		}
	}()
	d.Dispatch(event)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

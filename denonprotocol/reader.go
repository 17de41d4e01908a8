package denonprotocol

import (
	"bufio"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// readLoop decodes status lines from conn until the connection fails or is
// closed. closed and done belong to this connection only, so a loop that
// outlives its connection never touches a newer one.
func (c *Client) readLoop(conn net.Conn, closed, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), MaxLineLength)
	scanner.Split(ScanLines)

	for scanner.Scan() {
		event, ok := ParseEvent(scanner.Text(), time.Now())
		if !ok {
			continue
		}
		c.received(event)
	}

	c.readerStopped(conn, closed, scanner.Err())
}

// readerStopped wakes any waiting requester and, when the stop was not
// caused by Disconnect, tears the connection down and reports the loss.
func (c *Client) readerStopped(conn net.Conn, closed chan struct{}, err error) {
	c.mu.Lock()
	lost := c.isConnected && c.conn == conn
	if lost {
		c.isConnected = false
		c.conn = nil
		c.writer = nil
		c.pending = nil
	}
	handler := c.disconnectHandler
	c.mu.Unlock()

	close(closed)

	if !lost {
		c.logger.Debug("reader stopped")
		return
	}

	conn.Close()
	if err == nil {
		err = io.EOF
	}
	c.logger.Warn("connection lost", zap.Error(err))

	if handler != nil {
		handler(err)
	}
}

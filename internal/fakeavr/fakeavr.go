// Package fakeavr runs an in-process stand-in for a receiver's control
// port. It accepts TCP connections, reads CR/LF terminated commands, and
// answers them through a Handler. Status lines can also be pushed to all
// connected clients to simulate unsolicited events.
package fakeavr

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler returns the status lines to send in reply to a command. The
// lines are written without their terminator; the server appends "\r".
type Handler func(command string) []string

// Server is a fake receiver listening on a loopback TCP port.
type Server struct {
	listener net.Listener
	handler  Handler

	mu          sync.Mutex
	connections []net.Conn
	received    []string
	connected   chan struct{}

	wg sync.WaitGroup
}

// Start listens on an ephemeral loopback port and serves connections in
// the background. A nil handler uses a fresh Receiver.
func Start(handler Handler) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("fakeavr: listen: %w", err)
	}

	if handler == nil {
		handler = NewReceiver().Handle
	}

	s := &Server{
		listener:  listener,
		handler:   handler,
		connected: make(chan struct{}, 16),
	}

	s.wg.Add(1)
	go s.acceptLoop()

	return s, nil
}

// Addr returns the listening address in host:port form.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the listening host.
func (s *Server) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Received returns the commands read so far, in arrival order.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.received))
	copy(out, s.received)
	return out
}

// WaitForConnection blocks until a client connects or timeout elapses.
func (s *Server) WaitForConnection(timeout time.Duration) bool {
	select {
	case <-s.connected:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Push writes a status line to every connected client.
func (s *Server) Push(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.connections {
		fmt.Fprint(conn, line+"\r")
	}
}

// DropConnections closes every client connection while keeping the
// listener open.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.connections {
		conn.Close()
	}
	s.connections = nil
}

// Close stops the listener, closes all connections and waits for the
// serving goroutines to exit.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.DropConnections()
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.connections = append(s.connections, conn)
		s.mu.Unlock()

		select {
		case s.connected <- struct{}{}:
		default:
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	scanner := bufio.NewScanner(conn)
	scanner.Split(scanCommands)
	for scanner.Scan() {
		command := scanner.Text()
		if command == "" {
			continue
		}

		s.mu.Lock()
		s.received = append(s.received, command)
		for _, reply := range s.handler(command) {
			fmt.Fprint(conn, reply+"\r")
		}
		s.mu.Unlock()
	}
}

func scanCommands(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Receiver models the main zone of a receiver: power, master volume, mute
// and input source.
type Receiver struct {
	mu     sync.Mutex
	Power  string
	Volume int
	Mute   string
	Input  string
}

// NewReceiver returns a receiver that is on, at volume 50, unmuted, on the
// DVD input.
func NewReceiver() *Receiver {
	return &Receiver{Power: "ON", Volume: 50, Mute: "OFF", Input: "DVD"}
}

// Handle answers a command the way the receiver would. Unknown commands
// get no reply.
func (r *Receiver) Handle(command string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(command) < 2 {
		return nil
	}
	prefix, param := command[:2], command[2:]

	switch prefix {
	case "PW":
		switch param {
		case "?":
		case "ON", "STANDBY":
			r.Power = param
		default:
			return nil
		}
		return []string{"PW" + r.Power}

	case "MV":
		switch param {
		case "?":
		case "UP":
			r.Volume = min(r.Volume+1, 98)
		case "DOWN":
			r.Volume = max(r.Volume-1, 0)
		default:
			v, err := strconv.Atoi(param)
			if err != nil {
				return nil
			}
			r.Volume = min(max(v, 0), 98)
		}
		return []string{fmt.Sprintf("MV%02d", r.Volume)}

	case "MU":
		switch param {
		case "?":
		case "ON", "OFF":
			r.Mute = param
		default:
			return nil
		}
		return []string{"MU" + r.Mute}

	case "SI":
		if param != "?" {
			if param == "" {
				return nil
			}
			r.Input = strings.ToUpper(param)
		}
		return []string{"SI" + r.Input}
	}

	return nil
}

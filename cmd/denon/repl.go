// =============================================================================
// repl.go - Read-Eval-Print Loop
// =============================================================================
//
// Each input line is either a local dot-command (.help, .quit, ...) or a
// protocol command. Queries are sent with Request and the receiver's reply
// is printed; every other command is sent without waiting.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theves/denon4go/denonprotocol"
)

const prompt = "denon> "

// lineSource supplies REPL input. *LineEditor is the production source.
type lineSource interface {
	GetLine(prompt string) (string, error)
}

// syncWriter serializes writes from the REPL and the reader goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// eventPrinter is a listener that prints status lines while enabled.
type eventPrinter struct {
	out     io.Writer
	enabled atomic.Bool
}

func (p *eventPrinter) OnEvent(event denonprotocol.Event) error {
	if !p.enabled.Load() {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "*** %s\n", event)
	return err
}

// session executes commands against a connected client.
type session struct {
	client         *denonprotocol.Client
	stats          *denonprotocol.Stats
	events         *eventPrinter
	requestTimeout time.Duration
	out            io.Writer
	errOut         io.Writer
}

// runREPL reads and executes lines until .quit or end of input.
func (s *session) runREPL(input lineSource) {
	for {
		line, err := input.GetLine(prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printErrorTo(s.errOut, err.Error())
			}
			fmt.Fprintln(s.out)
			return
		}

		quit, err := s.execute(line)
		if err != nil {
			printErrorTo(s.errOut, err.Error())
		}
		if quit {
			return
		}
	}
}

// runBatch executes each argument as one line of input and stops at the
// first failure.
func (s *session) runBatch(lines []string) error {
	for _, line := range lines {
		quit, err := s.execute(line)
		if err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
		if quit {
			return nil
		}
	}
	return nil
}

// execute runs one line of input. It reports whether the session should end.
func (s *session) execute(line string) (quit bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false, nil
	}

	if strings.HasPrefix(trimmed, ".") {
		return s.executeDotCommand(trimmed)
	}

	cmd, err := translateToCommand(trimmed)
	if err != nil {
		return false, err
	}

	if !cmd.IsRequest() {
		return false, s.client.Send(cmd)
	}

	event, err := s.client.RequestWithTimeout(cmd, s.requestTimeout)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(s.out, event)
	return false, nil
}

func (s *session) executeDotCommand(line string) (bool, error) {
	fields := strings.Fields(line)
	keyword := strings.ToLower(fields[0])
	args := fields[1:]

	switch keyword {
	case ".quit", ".exit":
		return true, nil

	case ".help":
		topic := strings.Join(args, " ")
		if !printHelp(s.out, topic) {
			return false, fmt.Errorf("no help for '%s'. Type .help to see available commands", topic)
		}

	case ".stats":
		return false, s.stats.Print(s.out)

	case ".status":
		state := "not connected"
		if s.client.IsConnected() {
			state = "connected"
		}
		fmt.Fprintf(s.out, "%s (%s)\n", s.client.Addr(), state)

	case ".events":
		if len(args) == 0 {
			fmt.Fprintf(s.out, "Event printing is %s\n", onOff(s.events.enabled.Load()))
			return false, nil
		}
		switch strings.ToLower(args[0]) {
		case "on":
			s.events.enabled.Store(true)
		case "off":
			s.events.enabled.Store(false)
		default:
			return false, fmt.Errorf("invalid argument '%s' (usage: .events on|off)", args[0])
		}
		fmt.Fprintf(s.out, "Event printing %s\n", onOff(s.events.enabled.Load()))

	default:
		return false, fmt.Errorf("unknown command '%s'. Type .help to see available commands", keyword)
	}

	return false, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

package denonprotocol

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Stats counts the events seen during a session. Register it with an
// EventDispatcher to have every received event counted.
type Stats struct {
	events atomic.Int64
	begin  time.Time
	now    func() time.Time
}

// NewStats starts a session at the current time.
func NewStats() *Stats {
	return &Stats{begin: time.Now(), now: time.Now}
}

// OnEvent implements Listener.
func (s *Stats) OnEvent(Event) error {
	s.IncrementEvents()
	return nil
}

// IncrementEvents counts one event.
func (s *Stats) IncrementEvents() {
	s.events.Add(1)
}

// EventCount returns the number of events counted so far.
func (s *Stats) EventCount() int64 {
	return s.events.Load()
}

// Duration returns the time elapsed since the session began.
func (s *Stats) Duration() time.Duration {
	return s.now().Sub(s.begin)
}

// Print writes a short session summary to w.
func (s *Stats) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Session Stats:\n Events: %-20d\n Time:   %-20s\n",
		s.EventCount(), s.Duration().Round(time.Millisecond))
	return err
}

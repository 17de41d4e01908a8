package denonprotocol

import (
	"bytes"
	"strings"
	"time"
)

// Event is one status line received from the receiver, split into its
// prefix and value.
type Event struct {
	Prefix     string
	Value      string
	ReceivedAt time.Time
}

// ParseEvent decodes a status line. The first PrefixLength characters form
// the prefix and the remainder the value; shorter lines become prefix-only
// events. It returns false for lines that are empty once the line
// terminators are removed.
func ParseEvent(line string, receivedAt time.Time) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Event{}, false
	}

	if len(line) <= PrefixLength {
		return Event{Prefix: line, ReceivedAt: receivedAt}, true
	}
	return Event{
		Prefix:     line[:PrefixLength],
		Value:      line[PrefixLength:],
		ReceivedAt: receivedAt,
	}, true
}

// Raw returns the status line the event was decoded from.
func (e Event) Raw() string {
	return e.Prefix + e.Value
}

// Is reports whether the event carries the given prefix.
func (e Event) Is(prefix string) bool {
	return e.Prefix == prefix
}

func (e Event) String() string {
	if e.Value == "" {
		return e.Prefix
	}
	return e.Prefix + " " + e.Value
}

// ScanLines is a bufio.SplitFunc that splits on carriage returns and line
// feeds alike. A CRLF pair yields an extra empty token, which ParseEvent
// discards.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
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

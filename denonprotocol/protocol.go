// Package denonprotocol implements the line-oriented ASCII control protocol
// spoken by Denon AV receivers over TCP.
//
// Protocol Format:
//
//	Command (Client -> Receiver):  <prefix><parameter>\r
//	Status  (Receiver -> Client):  <prefix><value>\r
//
// The parameter of a command is one of three forms:
//
//	Set:      literal value, written without the bracket delimiters
//	Request:  the query token "?"
//	Direct:   raw value, written verbatim
//
// Example Session:
//
//	CLI: PW?
//	AVR: PWON
//	CLI: MV50
//	AVR: MV50
//	AVR: MVMAX 80
package denonprotocol

import (
	"net"
	"strconv"
	"time"
)

// Protocol constants.
const (
	// DefaultHost is used when a client is created without a host.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the receiver's telnet control port.
	DefaultPort = 23

	// Terminator ends every command written to the receiver.
	Terminator = "\r"

	// RequestToken is the query sentinel asking for the current value of a prefix.
	RequestToken = "?"

	// SetOpen and SetClose delimit a literal value in a command template.
	SetOpen  = "["
	SetClose = "]"

	// PrefixLength is the number of leading characters of a status line
	// that form the event prefix.
	PrefixLength = 2

	// MaxLineLength is the maximum accepted length of a status line in bytes.
	MaxLineLength = 4096

	// DefaultConnectTimeout is the timeout used by callers that do not
	// supply one.
	DefaultConnectTimeout = 3 * time.Second
)

// Address joins host and port, falling back to DefaultHost and DefaultPort.
func Address(host string, port int) string {
	if host == "" {
		host = DefaultHost
	}
	if port <= 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

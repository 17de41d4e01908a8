package denonprotocol

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the control protocol.
var (
	// ErrInvalidArgument indicates a command could not be built from its input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrConnectionClosed indicates the reader loop stopped while a request
	// was waiting for its response.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrTimeout indicates a connect attempt exceeded its timeout.
	ErrTimeout = errors.New("timed out")
)

// ConnectError is returned when a connection cannot be established.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("denonprotocol: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a connect attempt does not complete within
// the caller's timeout.
type TimeoutError struct {
	Addr    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("denonprotocol: connect %s: no connection within %v", e.Addr, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is reports TimeoutError as matching ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ConnectionError represents a failure to use an established connection,
// or an attempt to use one that does not exist.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("denonprotocol: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ExecutionError is returned by a request that finished waiting without
// receiving a response.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("denonprotocol: %s: no response: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

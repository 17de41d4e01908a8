package denonprotocol

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConnectError(t *testing.T) {
	err := &ConnectError{Addr: "127.0.0.1:23", Err: ErrAlreadyConnected}

	expected := "denonprotocol: connect 127.0.0.1:23: already connected"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrAlreadyConnected) {
		t.Error("errors.Is should return true for the wrapped sentinel")
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Addr: "10.0.0.1:23", Timeout: 100 * time.Millisecond, Err: context.DeadlineExceeded}

	expected := "denonprotocol: connect 10.0.0.1:23: no connection within 100ms"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is(err, ErrTimeout) should be true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the underlying cause")
	}
}

func TestConnectionError(t *testing.T) {
	err := &ConnectionError{Op: "send", Err: ErrNotConnected}

	expected := "denonprotocol: send: not connected"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrNotConnected) {
		t.Error("errors.Is should return true for the wrapped sentinel")
	}
}

func TestExecutionError(t *testing.T) {
	err := &ExecutionError{Op: "request PW?", Err: ErrConnectionClosed}

	expected := "denonprotocol: request PW?: no response: connection closed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	var execErr *ExecutionError
	if !errors.As(error(err), &execErr) {
		t.Fatal("errors.As should match *ExecutionError")
	}
	if !errors.Is(err, ErrConnectionClosed) {
		t.Error("errors.Is should return true for the wrapped sentinel")
	}
}

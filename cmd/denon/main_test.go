package main

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/theves/denon4go/internal/config"
	"github.com/theves/denon4go/internal/fakeavr"
)

// runCLI executes the root command with args and returns what it wrote to
// stdout and stderr. HOME points at an empty directory so no user
// configuration is picked up.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func startReceiver(t *testing.T) *fakeavr.Server {
	t.Helper()
	srv, err := fakeavr.Start(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestCLIBatchMode(t *testing.T) {
	srv := startReceiver(t)

	out, _, err := runCLI(t, "",
		"--host", srv.Host(), "--port", strconv.Itoa(srv.Port()), "--stats",
		"PW?", "mute on", "MU?")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	for _, want := range []string{"PW ON\n", "MU ON\n", "Session Stats:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "Type '.help'") {
		t.Error("batch mode should not print the REPL banner")
	}

	received := srv.Received()
	if len(received) < 3 || received[0] != "PW?" || received[1] != "MUON" {
		t.Errorf("receiver got %v", received)
	}
}

func TestCLIBatchModeFailure(t *testing.T) {
	srv := startReceiver(t)

	_, _, err := runCLI(t, "",
		"--host", srv.Host(), "--port", strconv.Itoa(srv.Port()),
		"power sideways")
	if err == nil {
		t.Fatal("invalid batch command should fail")
	}
	if !strings.Contains(err.Error(), "power sideways: invalid argument 'sideways'") {
		t.Errorf("error = %q", err)
	}
}

func TestCLIREPLMode(t *testing.T) {
	srv := startReceiver(t)

	out, _, err := runCLI(t, "PW?\n.status\n.quit\nMV?\n",
		"--host", srv.Host(), "--port", strconv.Itoa(srv.Port()))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	for _, want := range []string{
		"Connected to " + srv.Addr(),
		"Type '.help' for available commands.",
		prompt,
		"PW ON\n",
		srv.Addr() + " (connected)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	for _, cmd := range srv.Received() {
		if cmd == "MV?" {
			t.Error("input after .quit should not be executed")
		}
	}
}

func TestCLIConnectFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	_, _, err = runCLI(t, "", "--host", "127.0.0.1", "--port", strconv.Itoa(port), "--timeout", "1s", "PW?")
	if err == nil {
		t.Fatal("connecting to a closed port should fail")
	}
	if !strings.HasPrefix(err.Error(), "failed to connect to receiver: ") {
		t.Errorf("error = %q", err)
	}
}

func TestCLIConfigFile(t *testing.T) {
	srv := startReceiver(t)

	path := filepath.Join(t.TempDir(), "avr.yaml")
	yaml := fmt.Sprintf("host: %s\nport: %d\nrequest_timeout: 1s\n", srv.Host(), srv.Port())
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "--config", path, "SI?")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(out, "SI DVD\n") {
		t.Errorf("output %q missing reply", out)
	}
}

func TestCLIFlagsOverrideConfigFile(t *testing.T) {
	srv := startReceiver(t)

	// The file points at a port nobody listens on; the flag fixes it.
	path := filepath.Join(t.TempDir(), "avr.yaml")
	yaml := fmt.Sprintf("host: %s\nport: 1\nconnect_timeout: 1s\n", srv.Host())
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "--config", path, "--port", strconv.Itoa(srv.Port()), "PW?")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(out, "PW ON\n") {
		t.Errorf("output %q missing reply", out)
	}
}

func TestCLIMissingConfigFile(t *testing.T) {
	_, _, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "PW?")
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestCLIInvalidFlagValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"--port", "70000", "PW?"}},
		{"zero request timeout", []string{"--request-timeout", "0s", "PW?"}},
		{"unknown log format", []string{"--log-format", "xml", "PW?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			if !errors.Is(err, config.ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}

package denonprotocol

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		raw       string
		kind      ParameterKind
		value     string
		signature string
	}{
		{"Request", "PW", "?", KindRequest, "", "PW?"},
		{"Set brackets", "MV", "[50]", KindSet, "50", "MV50"},
		{"Set open bracket only", "MV", "[50", KindSet, "50", "MV50"},
		{"Set close bracket only", "SI", "DVD]", KindSet, "DVD", "SIDVD"},
		{"Set empty brackets", "MV", "[]", KindSet, "", "MV"},
		{"Direct", "PW", "ON", KindDirect, "ON", "PWON"},
		{"Direct with space", "MV", "MAX 80", KindDirect, "MAX 80", "MVMAX 80"},
		{"Direct empty", "PW", "", KindDirect, "", "PW"},
		{"Direct double query", "PW", "??", KindDirect, "??", "PW??"},
		{"Direct query with space", "PW", " ?", KindDirect, " ?", "PW ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Classify(tt.prefix, tt.raw)
			if err != nil {
				t.Fatalf("Classify(%q, %q) error: %v", tt.prefix, tt.raw, err)
			}
			if cmd.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", cmd.Kind(), tt.kind)
			}
			if cmd.Parameter.Value != tt.value {
				t.Errorf("value = %q, want %q", cmd.Parameter.Value, tt.value)
			}
			if got := cmd.Signature(); got != tt.signature {
				t.Errorf("Signature() = %q, want %q", got, tt.signature)
			}
			if got := cmd.FormatLine(); got != tt.signature+"\r" {
				t.Errorf("FormatLine() = %q, want %q", got, tt.signature+"\r")
			}
			if cmd.ID != "" {
				t.Errorf("ID = %q, want empty", cmd.ID)
			}
		})
	}
}

func TestClassifySetNeverCarriesBrackets(t *testing.T) {
	inputs := []string{"[50]", "[[1]]", "a[b]c", "]", "[", "[10-80]"}
	for _, raw := range inputs {
		cmd, err := Classify("MV", raw)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", raw, err)
		}
		if cmd.Kind() != KindSet {
			t.Errorf("Classify(%q) kind = %v, want set", raw, cmd.Kind())
		}
		if strings.ContainsAny(cmd.Signature(), "[]") {
			t.Errorf("Classify(%q) signature %q contains a bracket", raw, cmd.Signature())
		}
	}
}

func TestClassifyRejectsEmptyPrefix(t *testing.T) {
	for _, prefix := range []string{"", "   "} {
		_, err := Classify(prefix, "?")
		if err == nil {
			t.Fatalf("Classify(%q) should fail", prefix)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Classify(%q) error = %v, want ErrInvalidArgument", prefix, err)
		}
	}
}

func TestMustClassifyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustClassify with empty prefix should panic")
		}
	}()
	MustClassify("", "ON")
}

func TestCommandConstructors(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
		request  bool
	}{
		{"Request", NewRequestCommand("MU"), "MU?", true},
		{"Set", NewSetCommand("MV", "[45]"), "MV45", false},
		{"Set plain", NewSetCommand("MV", "45"), "MV45", false},
		{"Direct", NewCommand("SI", "TUNER"), "SITUNER", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if tt.cmd.IsRequest() != tt.request {
				t.Errorf("IsRequest() = %v, want %v", tt.cmd.IsRequest(), tt.request)
			}
		})
	}
}

func TestCommandWithID(t *testing.T) {
	cmd := NewRequestCommand("PW")
	a := cmd.WithID()
	b := cmd.WithID()

	if a.ID == "" || b.ID == "" {
		t.Fatal("WithID should set an identifier")
	}
	if a.ID == b.ID {
		t.Errorf("WithID returned the same id twice: %s", a.ID)
	}
	if cmd.ID != "" {
		t.Error("WithID should not modify the receiver")
	}
	if a.Signature() != "PW?" {
		t.Errorf("identifier must not change the signature, got %q", a.Signature())
	}
}

func TestParameterKindString(t *testing.T) {
	tests := []struct {
		kind     ParameterKind
		expected string
	}{
		{KindDirect, "direct"},
		{KindSet, "set"},
		{KindRequest, "request"},
		{ParameterKind(9), "ParameterKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("got %q, want %q", got, tt.expected)
		}
	}
}

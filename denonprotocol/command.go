package denonprotocol

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParameterKind identifies which wire form a Parameter takes.
type ParameterKind int

const (
	// KindDirect is a raw value written verbatim.
	KindDirect ParameterKind = iota
	// KindSet is a literal value that was given in bracket delimiters.
	KindSet
	// KindRequest is the query token.
	KindRequest
)

func (k ParameterKind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindSet:
		return "set"
	case KindRequest:
		return "request"
	default:
		return fmt.Sprintf("ParameterKind(%d)", int(k))
	}
}

// Parameter is the part of a command that follows its prefix.
type Parameter struct {
	Kind  ParameterKind
	Value string // empty for KindRequest
}

// Wire returns the parameter as it is written on the wire.
func (p Parameter) Wire() string {
	if p.Kind == KindRequest {
		return RequestToken
	}
	return p.Value
}

// Command is a single wire command. Commands are values; use the
// constructor functions or Classify to create them.
type Command struct {
	Prefix    string
	Parameter Parameter

	// ID correlates a command with log output. It never travels on the
	// wire and is empty unless WithID was called.
	ID string
}

// NewSetCommand creates a command carrying a literal value. Bracket
// delimiters in value are dropped.
func NewSetCommand(prefix, value string) Command {
	return Command{
		Prefix:    prefix,
		Parameter: Parameter{Kind: KindSet, Value: stripBrackets(value)},
	}
}

// NewRequestCommand creates a query for the current value of prefix.
func NewRequestCommand(prefix string) Command {
	return Command{
		Prefix:    prefix,
		Parameter: Parameter{Kind: KindRequest},
	}
}

// NewCommand creates a command whose value is written verbatim.
func NewCommand(prefix, value string) Command {
	return Command{
		Prefix:    prefix,
		Parameter: Parameter{Kind: KindDirect, Value: value},
	}
}

// Classify builds the command described by prefix and a raw parameter
// token. A token containing a bracket character yields a set command, the
// exact token "?" yields a request, anything else is taken verbatim.
func Classify(prefix, raw string) (Command, error) {
	if strings.TrimSpace(prefix) == "" {
		return Command{}, fmt.Errorf("%w: command prefix must not be empty", ErrInvalidArgument)
	}

	switch {
	case strings.ContainsAny(raw, SetOpen+SetClose):
		return NewSetCommand(prefix, raw), nil
	case raw == RequestToken:
		return NewRequestCommand(prefix), nil
	default:
		return NewCommand(prefix, raw), nil
	}
}

// MustClassify is like Classify but panics on error. It is intended for
// static command tables.
func MustClassify(prefix, raw string) Command {
	cmd, err := Classify(prefix, raw)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Kind returns the kind of the command's parameter.
func (c Command) Kind() ParameterKind {
	return c.Parameter.Kind
}

// IsRequest reports whether the command queries a value.
func (c Command) IsRequest() bool {
	return c.Parameter.Kind == KindRequest
}

// Signature returns the command as written on the wire, without the terminator.
func (c Command) Signature() string {
	return c.Prefix + c.Parameter.Wire()
}

// FormatLine returns the signature followed by the protocol terminator.
func (c Command) FormatLine() string {
	return c.Signature() + Terminator
}

// WithID returns a copy of the command carrying a fresh identifier.
func (c Command) WithID() Command {
	c.ID = uuid.NewString()
	return c
}

func (c Command) String() string {
	return c.Signature()
}

func stripBrackets(s string) string {
	return strings.NewReplacer(SetOpen, "", SetClose, "").Replace(s)
}

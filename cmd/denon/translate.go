// =============================================================================
// translate.go - REPL Input to Protocol Command Translation
// =============================================================================
//
// Users can type protocol commands directly or use a few spelled-out
// aliases for the most common functions:
//
//   PW?          raw command, prefix is the first two characters
//   MV 50        prefix and parameter separated by a space
//   MV [50]      bracketed literal value
//   power on     alias for PWON
//   volume 45    alias for MV[45]
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theves/denon4go/denonprotocol"
)

var errEmptyInput = errors.New("empty input")

// alias turns the arguments following an alias keyword into a prefix and
// raw parameter token.
type alias struct {
	prefix string
	usage  string
	param  func(args []string) (string, error)
}

var aliases = map[string]alias{
	"power": {
		prefix: "PW",
		usage:  "power on|off|?",
		param: oneOf(map[string]string{
			"on":      "ON",
			"off":     "STANDBY",
			"standby": "STANDBY",
			"?":       denonprotocol.RequestToken,
		}),
	},
	"volume": {
		prefix: "MV",
		usage:  "volume up|down|<0-98>|?",
		param:  volumeParam,
	},
	"mute": {
		prefix: "MU",
		usage:  "mute on|off|?",
		param: oneOf(map[string]string{
			"on":  "ON",
			"off": "OFF",
			"?":   denonprotocol.RequestToken,
		}),
	},
	"input": {
		prefix: "SI",
		usage:  "input <source>|?",
		param: func(args []string) (string, error) {
			if len(args) != 1 {
				return "", errors.New("expected a single source name")
			}
			return strings.ToUpper(args[0]), nil
		},
	},
}

func init() {
	aliases["vol"] = aliases["volume"]
	aliases["source"] = aliases["input"]
}

// translateToCommand parses one line of REPL input into a protocol command.
func translateToCommand(line string) (denonprotocol.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return denonprotocol.Command{}, errEmptyInput
	}

	keyword := strings.ToLower(fields[0])
	if a, ok := aliases[keyword]; ok {
		raw, err := a.param(fields[1:])
		if err != nil {
			return denonprotocol.Command{}, fmt.Errorf("%v (usage: %s)", err, a.usage)
		}
		return denonprotocol.Classify(a.prefix, raw)
	}

	if len(fields) == 1 {
		token := fields[0]
		if len(token) < denonprotocol.PrefixLength {
			return denonprotocol.Command{}, fmt.Errorf("unknown command '%s'", token)
		}
		prefix := strings.ToUpper(token[:denonprotocol.PrefixLength])
		return denonprotocol.Classify(prefix, token[denonprotocol.PrefixLength:])
	}

	if len(fields[0]) != denonprotocol.PrefixLength {
		return denonprotocol.Command{}, fmt.Errorf("unknown command '%s'", fields[0])
	}
	return denonprotocol.Classify(strings.ToUpper(fields[0]), strings.Join(fields[1:], " "))
}

func oneOf(values map[string]string) func([]string) (string, error) {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", errors.New("expected one argument")
		}
		v, ok := values[strings.ToLower(args[0])]
		if !ok {
			return "", fmt.Errorf("invalid argument '%s'", args[0])
		}
		return v, nil
	}
}

func volumeParam(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected one argument")
	}

	switch arg := strings.ToLower(args[0]); arg {
	case "up":
		return "UP", nil
	case "down":
		return "DOWN", nil
	case "?":
		return denonprotocol.RequestToken, nil
	default:
		level, err := strconv.Atoi(arg)
		if err != nil || level < 0 || level > 98 {
			return "", fmt.Errorf("invalid volume '%s'", args[0])
		}
		return fmt.Sprintf("%s%02d%s", denonprotocol.SetOpen, level, denonprotocol.SetClose), nil
	}
}

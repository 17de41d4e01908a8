// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// .help with no argument prints an overview; .help <topic> prints the entry
// for a dot-command, an alias or a protocol prefix.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

var globalHelp = map[string]string{
	"help": `.help [topic]
  Show the command overview, or help for a single topic.
  Topics: dot-commands, aliases (power, volume, mute, input) and
  protocol prefixes (PW, MV, MU, SI, ZM, MS).`,

	"quit": `.quit
  Disconnect from the receiver and exit. Ctrl-D does the same.`,

	"stats": `.stats
  Show the number of status lines received and the session length.`,

	"events": `.events [on|off]
  Print status lines as they arrive, marked with ***. Without an
  argument, shows whether printing is enabled.`,

	"status": `.status
  Show the receiver address and connection state.`,

	"power": `power on|off|?
  Switch the receiver on or to standby, or query the power state.
  Protocol: PWON, PWSTANDBY, PW?`,

	"volume": `volume up|down|<0-98>|?
  Step, set or query the master volume. Alias: vol.
  Protocol: MVUP, MVDOWN, MV[45], MV?`,

	"mute": `mute on|off|?
  Mute, unmute or query the mute state.
  Protocol: MUON, MUOFF, MU?`,

	"input": `input <source>|?
  Select an input source (DVD, TUNER, CD, GAME, ...) or query it.
  Alias: source. Protocol: SIDVD, SI?`,
}

// prefixHelp describes the protocol prefixes most receivers understand.
var prefixHelp = map[string]string{
	"pw": "PW  Power            ON, STANDBY, ?",
	"mv": "MV  Master volume    UP, DOWN, 00-98, ?",
	"mu": "MU  Mute             ON, OFF, ?",
	"si": "SI  Input source     DVD, TUNER, CD, GAME, ..., ?",
	"zm": "ZM  Main zone        ON, OFF, ?",
	"ms": "MS  Surround mode    STEREO, DIRECT, AUTO, ..., ?",
}

// printHelp writes help for topic, or the overview when topic is empty.
// It reports whether the topic was found.
func printHelp(w io.Writer, topic string) bool {
	if topic == "" {
		printHelpOverview(w)
		return true
	}

	key := strings.ToLower(strings.TrimPrefix(topic, "."))
	switch key {
	case "vol":
		key = "volume"
	case "source":
		key = "input"
	}

	if text, ok := globalHelp[key]; ok {
		fmt.Fprintln(w, text)
		return true
	}
	if text, ok := prefixHelp[key]; ok {
		fmt.Fprintln(w, text)
		return true
	}
	return false
}

func printHelpOverview(w io.Writer) {
	fmt.Fprint(w, `REPL Commands:
  .help [topic]     Show help (or help for a specific topic)
  .status           Show connection state
  .events [on|off]  Print incoming status lines
  .stats            Show session statistics
  .quit             Exit

Aliases:
  power on|off|?
  volume up|down|<0-98>|?
  mute on|off|?
  input <source>|?

Protocol Commands:
  PW?               Query (prints the receiver's reply)
  PWON              Command with a value, sent as typed
  MV 50             Prefix and value separated by a space
  MV [50]           Literal value (brackets are not sent)

Common Prefixes:
`)
	for _, key := range []string{"pw", "mv", "mu", "si", "zm", "ms"} {
		fmt.Fprintf(w, "  %s\n", prefixHelp[key])
	}
}

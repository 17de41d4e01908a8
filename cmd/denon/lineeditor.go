// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The REPL reads its input through a LineEditor, which picks an input method
// based on where input comes from:
//
//   - Interactive mode: a terminal on stdin. Uses ergochat/readline for line
//     editing, persistent history and history search.
//   - Non-interactive mode: piped input or an Emacs comint buffer. Falls back
//     to bufio.Scanner and prints the prompt itself.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// historySize is the maximum number of history entries to retain.
const historySize = 500

// LineEditor provides line input for the REPL.
type LineEditor struct {
	interactive bool

	// rl is set in interactive mode.
	rl *readline.Instance

	// scanner and out are used in non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineEditor creates a LineEditor reading from in. Readline is used only
// when in is a terminal outside Emacs; historyPath may be empty to disable
// persistent history.
func NewLineEditor(in io.Reader, out io.Writer, historyPath string) *LineEditor {
	basic := &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("INSIDE_EMACS") != "" {
		return basic
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyPath,
		HistoryLimit: historySize,

		// History is saved explicitly so blank lines stay out of it.
		DisableAutoSaveHistory: true,

		Prompt: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return basic
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// GetLine reads one line of input after showing prompt. It returns io.EOF
// when input ends or the user presses Ctrl-D or Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}

	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return le.scanner.Text(), nil
}

// Close releases the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

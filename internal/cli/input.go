package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal. Replace them with stubs to avoid touching a
// real TTY.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// errNoInput is returned when stdin is closed before a line was read.
var errNoInput = errors.New("no password on input")

// readSecret reads one secret. On a terminal it prompts on stderr and reads
// without echo; otherwise it takes the next line of stdin, keeping any
// leading or trailing spaces, which are part of the password.
func (a *App) readSecret(prompt string) (string, error) {
	if a.interactive() {
		fmt.Fprint(a.stderr, prompt)
		pw, err := readPassword(a.stdinFD)
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := a.stdin.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		if line == "" {
			return "", errNoInput
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// interactive reports whether secrets come from a terminal prompt.
func (a *App) interactive() bool {
	return !a.fromStdin && isTerminal(a.stdinFD)
}

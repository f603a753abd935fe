// Package tui renders ingest progress and summaries for people at a terminal.
package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of the current process.
type Mode int

const (
	ModeNonInteractive Mode = iota // CI, pipes, redirected output
	ModeInteractive                // a person at a terminal
)

// EnvNonInteractive forces plain output when set to 1.
const EnvNonInteractive = "AIPX_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive when AIPX_NON_INTERACTIVE=1, CI or
// NO_COLOR is set, or when stdin or stderr is not a terminal.
func DetectMode() Mode {
	if os.Getenv(EnvNonInteractive) == "1" || os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	// Progress is drawn on stderr so stdout stays clean for JSON output.
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

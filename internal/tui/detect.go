package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for kagglefetch.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is watching the terminal.
	ModeInteractive
)

// NonInteractiveEnv disables spinners and styling when set to "1".
const NonInteractiveEnv = "KAGGLEFETCH_NON_INTERACTIVE"

// DetectMode determines whether kagglefetch may draw a spinner.
//
// Returns ModeNonInteractive if:
//   - KAGGLEFETCH_NON_INTERACTIVE=1 is set
//   - CI=true is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stderr is not a terminal (progress output is redirected)
//
// Returns ModeInteractive otherwise. Stdout is not consulted: it carries the
// command result and is often piped while stderr stays on the terminal.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// Package terminal provides color output, TTY detection, and styled
// logging for the CLI.
package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Cyan    = "\033[36m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Magenta = "\033[35m"
)

var colorMu sync.RWMutex

var colorsEnabled = true

// SetColorsEnabled sets the global color output state. Thread-safe.
func SetColorsEnabled(enabled bool) {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = enabled
}

// ColorsEnabled returns whether colors are currently enabled.
func ColorsEnabled() bool {
	colorMu.RLock()
	defer colorMu.RUnlock()
	return colorsEnabled
}

// WithColorsDisabled runs fn with colors disabled, then restores the
// previous state. Intended for tests.
func WithColorsDisabled(fn func()) {
	colorMu.Lock()
	prev := colorsEnabled
	colorsEnabled = false
	colorMu.Unlock()

	defer func() {
		colorMu.Lock()
		colorsEnabled = prev
		colorMu.Unlock()
	}()

	fn()
}

// Color returns the color code if colors are enabled, otherwise the
// empty string.
func Color(c string) string {
	colorMu.RLock()
	defer colorMu.RUnlock()
	if colorsEnabled {
		return c
	}
	return ""
}

// IsTTY returns true if the given file descriptor is a terminal.
func IsTTY(fd int) bool {
	return term.IsTerminal(fd)
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return IsTTY(int(os.Stdout.Fd()))
}

// IsStderrTTY returns true if stderr is a terminal.
func IsStderrTTY() bool {
	return IsTTY(int(os.Stderr.Fd()))
}

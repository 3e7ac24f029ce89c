package terminal

import (
	"fmt"
	"io"
	"os"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// Logger provides styled logging, tagged [rvk], to stderr by default.
type Logger struct {
	Out io.Writer
}

// NewLogger creates a logger writing to stderr.
func NewLogger() *Logger {
	return &Logger{Out: os.Stderr}
}

// Log prints a styled log message.
func (l *Logger) Log(msg string, style Style) {
	styleColor := Cyan
	switch style {
	case StyleInfo:
		styleColor = Cyan
	case StyleSuccess:
		styleColor = Green
	case StyleWarning:
		styleColor = Yellow
	case StyleError:
		styleColor = Red
	case StyleDim:
		styleColor = Dim
	case StylePhase:
		styleColor = Magenta + Bold
	}

	tag := fmt.Sprintf("%s[%s%srvk%s%s]%s",
		Color(Dim), Color(Reset), Color(styleColor), Color(Reset), Color(Dim), Color(Reset))
	fmt.Fprintf(l.Out, "%s %s\n", tag, msg)
}

// Logf prints a formatted styled log message.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

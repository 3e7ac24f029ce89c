package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerTag(t *testing.T) {
	WithColorsDisabled(func() {
		var buf bytes.Buffer
		l := &Logger{Out: &buf}

		l.Log("starting review", StyleInfo)

		got := buf.String()
		if !strings.HasPrefix(got, "[rvk] ") {
			t.Errorf("log line = %q, want [rvk] prefix", got)
		}
		if !strings.Contains(got, "starting review") {
			t.Errorf("log line = %q, missing message", got)
		}
	})
}

func TestLogf(t *testing.T) {
	WithColorsDisabled(func() {
		var buf bytes.Buffer
		l := &Logger{Out: &buf}

		l.Logf(StyleWarning, "failed after %d attempts", 3)

		if !strings.Contains(buf.String(), "failed after 3 attempts") {
			t.Errorf("log line = %q, want formatted message", buf.String())
		}
	})
}

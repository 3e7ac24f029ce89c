// Package progress maintains the append-only review activity log.
package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Timestamp returns the log timestamp for the current moment, always
// rendered in UTC.
func Timestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04 UTC")
}

// Append writes entry to the end of the log file at path, creating the
// file and its parent directory if needed.
func Append(path, entry string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create progress log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open progress log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write progress log: %w", err)
	}
	return nil
}

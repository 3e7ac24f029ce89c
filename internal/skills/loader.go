// Package skills loads reviewer instruction content from disk.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError is returned when a requested skill has no SKILL.md on disk.
// A missing skill is a fatal configuration problem for the reviewer that
// references it, never something retries can fix.
type NotFoundError struct {
	Skill string
	Path  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill %q not found, expected at %s", e.Skill, e.Path)
}

// Loader resolves skill references to instruction content. Each skill lives
// in its own directory under Dir, with the instructions in SKILL.md.
type Loader struct {
	Dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load reads the SKILL.md for the named skill and returns its content.
// Returns a *NotFoundError when the file does not exist.
func (l *Loader) Load(skill string) (string, error) {
	path := filepath.Join(l.Dir, filepath.FromSlash(skill), "SKILL.md")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Skill: skill, Path: path}
		}
		return "", fmt.Errorf("failed to read skill %q: %w", skill, err)
	}

	return string(data), nil
}

// Package review drives the propose, review, fix, commit loop across a
// project's configured reviewers.
package review

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/reviewkit/reviewkit/internal/domain"
)

// StateFilename is where in-progress loop state is persisted, relative
// to the project root.
const StateFilename = ".reviewkit-state.json"

// State records which reviewers a loop run has already completed, so an
// interrupted run can resume without repeating work.
type State struct {
	ReviewerNames []string        `json:"reviewer_names"`
	Completed     map[string]bool `json:"completed"`
	Timestamp     string          `json:"timestamp"`
	ConfigHash    string          `json:"config_hash"`
}

// NewState creates fresh state for a run over the given roster.
func NewState(reviewers []domain.ReviewerSpec) *State {
	names := make([]string, len(reviewers))
	for i, r := range reviewers {
		names[i] = r.Name
	}
	return &State{
		ReviewerNames: names,
		Completed:     map[string]bool{},
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ConfigHash:    ComputeConfigHash(reviewers),
	}
}

// hashEntry has its fields in alphabetical order so the marshaled JSON
// is canonical.
type hashEntry struct {
	Languages []string     `json:"languages"`
	Level     domain.Level `json:"level"`
	Name      string       `json:"name"`
	Skill     string       `json:"skill"`
}

// ComputeConfigHash returns a digest of the roster. Reviewer sequence is
// significant (reviewers execute in order, so a reorder is a real
// configuration change); only the language list within each reviewer is
// order-insensitive.
func ComputeConfigHash(reviewers []domain.ReviewerSpec) string {
	entries := make([]hashEntry, len(reviewers))
	for i, r := range reviewers {
		var languages []string
		if len(r.Languages) > 0 {
			languages = append([]string(nil), r.Languages...)
			sort.Strings(languages)
		}
		entries[i] = hashEntry{
			Languages: languages,
			Level:     r.Level,
			Name:      r.Name,
			Skill:     r.Skill,
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		// Only reachable with unmarshalable values, which the roster
		// types cannot hold.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save writes the state to path.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// LoadState reads persisted state from path. A missing or unreadable
// file yields (nil, nil): resume is best effort, a bad state file just
// means starting over.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	if s.Completed == nil {
		s.Completed = map[string]bool{}
	}
	return &s, nil
}

// RemoveState deletes the state file. Missing files are not an error.
func RemoveState(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

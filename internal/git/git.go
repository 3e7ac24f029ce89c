// Package git provides the repository operations the fix loop needs.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Service runs git commands in a fixed working directory.
type Service struct {
	WorkDir string
}

// NewService creates a service for the repository at workDir.
func NewService(workDir string) *Service {
	return &Service{WorkDir: workDir}
}

func (s *Service) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = s.WorkDir
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		if output != "" {
			return "", fmt.Errorf("git %s failed: %s", args[0], output)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return output, nil
}

// HasChanges reports whether the working tree has uncommitted changes,
// staged or not.
func (s *Service) HasChanges() (bool, error) {
	out, err := s.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records a commit with the given message and returns its hash.
// When addAll is true, everything in the working tree is staged first.
func (s *Service) Commit(message string, addAll bool) (string, error) {
	if addAll {
		if _, err := s.run("add", "-A"); err != nil {
			return "", err
		}
	}
	if _, err := s.run("commit", "-m", message); err != nil {
		return "", err
	}
	return s.run("rev-parse", "HEAD")
}

// CurrentBranch returns the checked-out branch name. Empty on a
// detached HEAD.
func (s *Service) CurrentBranch() (string, error) {
	return s.run("branch", "--show-current")
}

// Root returns the repository's top-level directory.
func (s *Service) Root() (string, error) {
	return s.run("rev-parse", "--show-toplevel")
}

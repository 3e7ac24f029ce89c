// Package fix drives one fix attempt loop per review finding, committing
// each successful fix.
package fix

import (
	"context"
	"fmt"

	"github.com/reviewkit/reviewkit/internal/agent"
	"github.com/reviewkit/reviewkit/internal/domain"
	"github.com/reviewkit/reviewkit/internal/git"
	"github.com/reviewkit/reviewkit/internal/progress"
	"github.com/reviewkit/reviewkit/internal/terminal"
)

// DefaultMaxRetries is how many times a single finding is attempted
// before giving up on it.
const DefaultMaxRetries = 3

// Git is the subset of repository operations the fix loop needs.
type Git interface {
	HasChanges() (bool, error)
	Commit(message string, addAll bool) (string, error)
}

// Service runs the fix loop for a reviewer's findings.
type Service struct {
	Runner     agent.Runner
	Git        Git
	Logger     *terminal.Logger
	MaxRetries int
}

// NewService creates a fix service for the repository at workDir.
func NewService(runner agent.Runner, workDir string, logger *terminal.Logger) *Service {
	return &Service{
		Runner:     runner,
		Git:        git.NewService(workDir),
		Logger:     logger,
		MaxRetries: DefaultMaxRetries,
	}
}

// Run attempts to fix each finding in order. Every finding gets its own
// retry budget; one stubborn finding never blocks the rest. The returned
// slice has one result per finding. Aborts early only when ctx is done.
func (s *Service) Run(ctx context.Context, reviewer string, findings []domain.Finding, progressPath string, onStep func(i, total int, findingID string)) []domain.FixResult {
	results := make([]domain.FixResult, 0, len(findings))
	for i, finding := range findings {
		if onStep != nil {
			onStep(i+1, len(findings), finding.ID)
		}
		results = append(results, s.fixOne(ctx, reviewer, finding, progressPath))
		if ctx.Err() != nil {
			break
		}
	}
	return results
}

func (s *Service) fixOne(ctx context.Context, reviewer string, finding domain.Finding, progressPath string) domain.FixResult {
	prompt := buildFixPrompt(finding)

	var lastErr string
	for attempt := 1; attempt <= s.MaxRetries; attempt++ {
		_, exitCode, err := s.Runner.Run(ctx, prompt, agent.RunOptions{
			Stream:             true,
			SkipPermissions:    true,
			AppendSystemPrompt: agent.AutonomousModePrompt,
		})
		if err != nil {
			lastErr = err.Error()
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if exitCode != 0 {
			lastErr = fmt.Sprintf("claude exited with code %d", exitCode)
			continue
		}

		s.commitFix(reviewer, finding)
		s.logEntry(progressPath, fixedEntry(reviewer, finding, attempt, s.MaxRetries))
		return domain.FixResult{FindingID: finding.ID, Success: true, Attempts: attempt}
	}

	s.logEntry(progressPath, failedEntry(reviewer, finding, s.MaxRetries, lastErr))
	return domain.FixResult{FindingID: finding.ID, Success: false, Attempts: s.MaxRetries, Error: lastErr}
}

// commitFix commits whatever the agent changed. A clean tree is fine,
// the agent may have concluded nothing needed changing.
func (s *Service) commitFix(reviewer string, finding domain.Finding) {
	dirty, err := s.Git.HasChanges()
	if err != nil {
		s.Logger.Logf(terminal.StyleWarning, "Could not check working tree: %v", err)
		return
	}
	if !dirty {
		return
	}
	message := fmt.Sprintf("fix(review): %s - %s - %s", reviewer, finding.ID, truncate(finding.Issue, 50))
	if _, err := s.Git.Commit(message, true); err != nil {
		s.Logger.Logf(terminal.StyleWarning, "Could not commit fix for %s: %v", finding.ID, err)
	}
}

func (s *Service) logEntry(path, entry string) {
	if path == "" {
		return
	}
	if err := progress.Append(path, entry); err != nil {
		s.Logger.Logf(terminal.StyleWarning, "Could not write progress log: %v", err)
	}
}

func buildFixPrompt(f domain.Finding) string {
	location := f.FilePath
	if f.LineNumber > 0 {
		location = fmt.Sprintf("%s at line %d", f.FilePath, f.LineNumber)
	}
	return fmt.Sprintf(`You are fixing a code review finding.

## Finding Details

- **ID**: %s
- **Category**: %s
- **File**: %s
- **Issue**: %s
- **Suggestion**: %s

## Your Task

1. Read the file mentioned in the finding
2. Understand the issue described
3. Apply the suggested fix (or an equivalent solution)
4. Verify the fix is correct

Make only the minimal changes needed to address this specific finding.
Do not make unrelated changes or refactor surrounding code.

Begin fixing now.`, f.ID, f.Category, location, f.Issue, f.Suggestion)
}

func fixedEntry(reviewer string, f domain.Finding, attempts, maxRetries int) string {
	return fmt.Sprintf(`
[Review Fix] %s - %s/%s

### What was fixed
- %s

### Files changed
- %s

### Attempts
%d of %d

---
`, progress.Timestamp(), reviewer, f.ID, f.Issue, f.FilePath, attempts, maxRetries)
}

func failedEntry(reviewer string, f domain.Finding, maxRetries int, reason string) string {
	return fmt.Sprintf(`
[Review Fix Failed] %s - %s/%s

### Issue
- %s

### Attempts
%d of %d (exhausted)

### Reason
%s

---
`, progress.Timestamp(), reviewer, f.ID, f.Issue, maxRetries, maxRetries, reason)
}

// truncate shortens s to max runes. Slicing runes rather than bytes
// keeps a multi-byte character at the boundary intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

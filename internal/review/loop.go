package review

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reviewkit/reviewkit/internal/agent"
	"github.com/reviewkit/reviewkit/internal/domain"
	"github.com/reviewkit/reviewkit/internal/progress"
	"github.com/reviewkit/reviewkit/internal/skills"
	"github.com/reviewkit/reviewkit/internal/terminal"
)

// DefaultMaxRetries is the retry budget for enforced reviewers.
const DefaultMaxRetries = 3

// Fixer runs the fix loop for a reviewer's findings.
type Fixer interface {
	Run(ctx context.Context, reviewer string, findings []domain.Finding, progressPath string, onStep func(i, total int, findingID string)) []domain.FixResult
}

// SkillLoader resolves a skill reference to its instruction content.
type SkillLoader interface {
	Load(skill string) (string, error)
}

// Service orchestrates the review loop over a project's reviewers.
type Service struct {
	ProjectRoot string
	Runner      agent.Runner
	Skills      SkillLoader
	Fixer       Fixer
	Logger      *terminal.Logger
	MaxRetries  int
}

// NewService creates a review service with the default retry budget.
func NewService(projectRoot string, runner agent.Runner, loader *skills.Loader, fixer Fixer, logger *terminal.Logger) *Service {
	return &Service{
		ProjectRoot: projectRoot,
		Runner:      runner,
		Skills:      loader,
		Fixer:       fixer,
		Logger:      logger,
		MaxRetries:  DefaultMaxRetries,
	}
}

// LoopOptions controls a single RunLoop invocation.
type LoopOptions struct {
	// Strict promotes warning-level reviewers to enforced and runs the
	// fix loop for every level.
	Strict bool
	// NoFix reports findings without attempting to fix them.
	NoFix bool
	// ProgressPath is the review activity log. Empty disables logging.
	ProgressPath string
	// StatePath overrides where resume state is kept. Defaults to
	// StateFilename under the project root.
	StatePath string
	// Languages is the detected language set used for reviewer filtering.
	Languages []string
	// OnReviewStep is called before each reviewer runs.
	OnReviewStep func(i, total int, name string)
	// OnFixStep is called before each finding's fix attempt loop.
	OnFixStep func(i, total int, findingID string)
}

// ShouldRun reports whether a reviewer applies to a project with the
// given detected languages. Reviewers without a language filter always
// run.
func ShouldRun(spec domain.ReviewerSpec, detected []string) bool {
	if len(spec.Languages) == 0 {
		return true
	}
	for _, want := range spec.Languages {
		for _, have := range detected {
			if want == have {
				return true
			}
		}
	}
	return false
}

// IsEnforced reports whether reviewer failures gate the run. Blocking
// reviewers are always enforced; warning reviewers only in strict mode.
func IsEnforced(spec domain.ReviewerSpec, strict bool) bool {
	switch spec.Level {
	case domain.LevelBlocking:
		return true
	case domain.LevelWarning:
		return strict
	}
	return false
}

// ShouldRunFixLoop reports whether findings from this reviewer get the
// fix loop. Language-filtered reviewers never do; otherwise blocking
// reviewers always do, and strict mode extends that to every level.
func ShouldRunFixLoop(spec domain.ReviewerSpec, strict, languageFiltered bool) bool {
	if languageFiltered {
		return false
	}
	if spec.Level == domain.LevelBlocking {
		return true
	}
	return strict
}

// RunReviewer runs a single reviewer to completion, including retries.
// It never returns an error: all failure modes are captured in the
// result so the loop can keep going.
func (s *Service) RunReviewer(ctx context.Context, spec domain.ReviewerSpec, strict bool) domain.ReviewerResult {
	skillContent, err := s.Skills.Load(spec.Skill)
	if err != nil {
		return domain.ReviewerResult{
			ReviewerName: spec.Name,
			Error:        fmt.Sprintf("Skill not found: %s", spec.Skill),
		}
	}

	prompt := buildReviewPrompt(spec.Name, skillContent)
	attemptsAllowed := 1
	if IsEnforced(spec, strict) {
		attemptsAllowed = s.MaxRetries
	}

	var lastOutput string
	for attempt := 1; attempt <= attemptsAllowed; attempt++ {
		output, exitCode, err := s.Runner.Run(ctx, prompt, agent.RunOptions{
			Stream:             true,
			SkipPermissions:    true,
			AppendSystemPrompt: agent.AutonomousModePrompt,
		})
		if err != nil {
			if attempt == attemptsAllowed || ctx.Err() != nil {
				return domain.ReviewerResult{
					ReviewerName: spec.Name,
					Attempts:     attempt,
					Error:        err.Error(),
				}
			}
			continue
		}
		if exitCode == 0 {
			return domain.ReviewerResult{
				ReviewerName: spec.Name,
				Success:      true,
				Attempts:     attempt,
				ReviewOutput: domain.ParseReviewOutput(output),
			}
		}
		lastOutput = output
	}

	result := domain.ReviewerResult{
		ReviewerName: spec.Name,
		Attempts:     attemptsAllowed,
		Error:        fmt.Sprintf("Failed after %d attempts", attemptsAllowed),
	}
	if lastOutput != "" {
		result.ReviewOutput = domain.ParseReviewOutput(lastOutput)
	}
	return result
}

// RunLoop runs every reviewer in order, fixing findings as configured.
// An interrupted run resumes from persisted state as long as the roster
// has not changed. The returned error is non-nil only when the loop was
// cut short; individual reviewer failures are reported in the results.
func (s *Service) RunLoop(ctx context.Context, reviewers []domain.ReviewerSpec, opts LoopOptions) ([]domain.ReviewerResult, error) {
	statePath := opts.StatePath
	if statePath == "" {
		statePath = filepath.Join(s.ProjectRoot, StateFilename)
	}

	hash := ComputeConfigHash(reviewers)
	state, _ := LoadState(statePath)
	if state != nil && state.ConfigHash != hash {
		s.Logger.Log("Discarding saved progress: the reviewer configuration has changed", terminal.StyleWarning)
		state = nil
	}
	if state == nil {
		state = NewState(reviewers)
	}

	results := make([]domain.ReviewerResult, 0, len(reviewers))
	for i, spec := range reviewers {
		// Only successful completions are skippable; a reviewer that
		// failed last time gets another chance.
		if state.Completed[spec.Name] {
			s.Logger.Logf(terminal.StyleDim, "Skipping %s (completed in a previous run)", spec.Name)
			results = append(results, domain.ReviewerResult{ReviewerName: spec.Name, Success: true})
			continue
		}

		if opts.OnReviewStep != nil {
			opts.OnReviewStep(i+1, len(reviewers), spec.Name)
		}

		result := s.runOne(ctx, spec, opts)
		results = append(results, result)

		state.Completed[spec.Name] = result.Success
		if err := state.Save(statePath); err != nil {
			s.Logger.Logf(terminal.StyleWarning, "Could not save state: %v", err)
		}

		if ctx.Err() != nil {
			// State stays on disk so the next run picks up here.
			return results, ctx.Err()
		}
	}

	if err := RemoveState(statePath); err != nil {
		s.Logger.Logf(terminal.StyleWarning, "Could not remove state file: %v", err)
	}
	return results, nil
}

func (s *Service) runOne(ctx context.Context, spec domain.ReviewerSpec, opts LoopOptions) domain.ReviewerResult {
	if !ShouldRun(spec, opts.Languages) {
		s.logEntry(opts.ProgressPath, skippedEntry(spec))
		return domain.ReviewerResult{ReviewerName: spec.Name, Success: true, Skipped: true}
	}

	result := s.RunReviewer(ctx, spec, opts.Strict)
	s.logEntry(opts.ProgressPath, reviewEntry(spec, result))

	findings := result.Findings()
	if len(findings) == 0 {
		return result
	}

	if opts.NoFix || !ShouldRunFixLoop(spec, opts.Strict, false) {
		result.FixSkipped = true
		return result
	}

	result.FixResults = s.Fixer.Run(ctx, spec.Name, findings, opts.ProgressPath, opts.OnFixStep)
	return result
}

func (s *Service) logEntry(path, entry string) {
	if path == "" {
		return
	}
	if err := progress.Append(path, entry); err != nil {
		s.Logger.Logf(terminal.StyleWarning, "Could not write progress log: %v", err)
	}
}

func buildReviewPrompt(name, skillContent string) string {
	return fmt.Sprintf(`You are a code reviewer running the %s review.

## Review Instructions

%s

## Your Task

1. Analyze the codebase according to the review instructions above
2. Identify any issues that need to be addressed
3. Make the necessary changes to fix the issues
4. Verify your changes are correct

If no issues are found, simply confirm the codebase passes this review.

Begin the review now.`, name, skillContent)
}

func skippedEntry(spec domain.ReviewerSpec) string {
	return fmt.Sprintf("\n[Review Loop] %s - %s (%s): skipped (language filter)\n",
		progress.Timestamp(), spec.Name, spec.Level)
}

// reviewEntry renders the log entry for a completed reviewer. Parsed
// output gets the structured form; otherwise a one-line summary.
func reviewEntry(spec domain.ReviewerSpec, result domain.ReviewerResult) string {
	if result.ReviewOutput != nil {
		return structuredEntry(spec, result.ReviewOutput)
	}

	status := "passed"
	if !result.Success {
		status = fmt.Sprintf("failed after %d attempts (%s)", result.Attempts, result.Error)
	}
	return fmt.Sprintf("[Review Loop] %s - %s (%s): %s\n",
		progress.Timestamp(), spec.Name, spec.Level, status)
}

func structuredEntry(spec domain.ReviewerSpec, output *domain.ReviewOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[Review] %s - %s (%s)\n\n### Verdict: %s\n",
		progress.Timestamp(), spec.Name, spec.Level, output.Verdict)

	if len(output.Findings) > 0 {
		b.WriteString("\n### Findings\n\n")
		for i, f := range output.Findings {
			fmt.Fprintf(&b, "%d. **%s**: %s - %s\n", i+1, f.ID, f.Category, truncate(f.Issue, 50))
			fmt.Fprintf(&b, "   - File: %s\n", findingFileRef(f))
			fmt.Fprintf(&b, "   - Issue: %s\n", f.Issue)
			fmt.Fprintf(&b, "   - Suggestion: %s\n", f.Suggestion)
		}
	}

	b.WriteString("\n---\n")
	return b.String()
}

func findingFileRef(f domain.Finding) string {
	if f.LineNumber > 0 {
		return fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber)
	}
	return f.FilePath
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

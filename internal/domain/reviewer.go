// Package domain holds the shared data types for the review engine.
package domain

// Level is the enforcement level of a reviewer. It determines whether
// reviewer failures gate the run and whether failed invocations retry.
type Level string

const (
	// LevelBlocking reviewers must pass before the run can succeed.
	LevelBlocking Level = "blocking"
	// LevelWarning reviewers report issues but only gate in strict mode.
	LevelWarning Level = "warning"
	// LevelSuggestion reviewers are advisory and never enforced.
	LevelSuggestion Level = "suggestion"
)

// Valid reports whether l is one of the known enforcement levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBlocking, LevelWarning, LevelSuggestion:
		return true
	}
	return false
}

// ReviewerSpec configures a single reviewer. Ordering in the configured
// list is significant: reviewers execute in list order, because later
// reviewers may react to files changed by earlier fixes.
type ReviewerSpec struct {
	// Name is the unique display name of the reviewer.
	Name string `yaml:"name"`
	// Skill references the reviewer's instructions, resolved by the
	// skill loader.
	Skill string `yaml:"skill"`
	// Level is the enforcement level (blocking, warning, suggestion).
	Level Level `yaml:"level"`
	// Languages restricts the reviewer to projects using at least one of
	// the listed languages. Nil or empty means the reviewer always runs.
	Languages []string `yaml:"languages,omitempty"`
}

// ReviewerResult is the outcome of running one reviewer.
type ReviewerResult struct {
	ReviewerName string
	Success      bool
	// Skipped is true when the reviewer was skipped by language filtering.
	Skipped bool
	// Attempts is the number of agent invocations made (0 when skipped or
	// when instruction resolution failed).
	Attempts int
	Error    string
	// ReviewOutput holds the parsed verdict and findings when the agent's
	// output was parseable.
	ReviewOutput *ReviewOutput
	// FixSkipped is true when the reviewer produced findings but the fix
	// loop did not run for them, either by flag or by enforcement policy.
	FixSkipped bool
	// FixResults holds the per-finding outcomes when the fix loop ran.
	FixResults []FixResult
}

// Findings returns the reviewer's findings, or nil when there are none.
func (r ReviewerResult) Findings() []Finding {
	if r.ReviewOutput == nil {
		return nil
	}
	return r.ReviewOutput.Findings
}

// FixResult is the outcome of attempting to fix one finding.
type FixResult struct {
	FindingID string
	Success   bool
	Attempts  int
	Error     string
}

package domain

// Verdict is a reviewer's overall judgment of the codebase.
type Verdict string

const (
	// VerdictPassed means the code passed the review with no issues.
	VerdictPassed Verdict = "PASSED"
	// VerdictNeedsWork means the review surfaced issues to address.
	VerdictNeedsWork Verdict = "NEEDS_WORK"
)

// Finding is a single issue reported by a reviewer, with enough context
// for the fix loop to resolve it. Findings are only ever produced by
// parsing agent output, never constructed by the orchestrator.
type Finding struct {
	// ID is the unique finding identifier (e.g. FINDING-001).
	ID string
	// Category classifies the issue (e.g. "Type Safety").
	Category string
	// FilePath locates the file containing the issue.
	FilePath string
	// LineNumber is the line where the issue occurs, 0 when unknown.
	LineNumber int
	// Issue describes the problem.
	Issue string
	// Suggestion is the recommended fix.
	Suggestion string
}

// ReviewOutput is the structured result parsed from a reviewer's output:
// the verdict plus any findings (empty when passed).
type ReviewOutput struct {
	Verdict  Verdict
	Findings []Finding
}

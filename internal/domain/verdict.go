package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Reviewers report their judgment in a markdown block:
//
//	### Verdict: PASSED|NEEDS_WORK
//
//	### Findings
//
//	1. **FINDING-001**: Category - brief description
//	   - File: path/to/file.go:123
//	   - Issue: description (may span multiple lines)
//	   - Suggestion: recommendation (may span multiple lines)
var (
	verdictRe    = regexp.MustCompile(`(?i)###\s*Verdict:\s*(PASSED|NEEDS_WORK)`)
	headerRe     = regexp.MustCompile(`^\s*\d+\.\s*\*\*([^*]+)\*\*:\s*([^-\n]+)\s*-`)
	fileRe       = regexp.MustCompile(`^\s*-\s*File:\s*([^:]+?)(?::(\d+))?\s*$`)
	issueRe      = regexp.MustCompile(`^\s*-\s*Issue:\s*(.*)$`)
	suggestionRe = regexp.MustCompile(`^\s*-\s*Suggestion:\s*(.*)$`)
	fieldRe      = regexp.MustCompile(`^\s*-\s*(File|Issue|Suggestion):`)
	terminatorRe = regexp.MustCompile(`^\s*(---|\[Review)`)
)

// ParseReviewOutput extracts the verdict and findings from a reviewer's
// markdown output. A missing verdict line defaults to PASSED, and malformed
// finding blocks are dropped rather than reported as errors: only the
// process exit code decides whether a reviewer invocation failed.
func ParseReviewOutput(text string) *ReviewOutput {
	m := verdictRe.FindStringSubmatch(text)
	if m == nil {
		return &ReviewOutput{Verdict: VerdictPassed}
	}

	verdict := Verdict(strings.ToUpper(m[1]))
	if verdict == VerdictPassed {
		return &ReviewOutput{Verdict: VerdictPassed}
	}

	return &ReviewOutput{
		Verdict:  VerdictNeedsWork,
		Findings: parseFindings(text),
	}
}

// parseFindings walks the output line by line, collecting one finding per
// numbered **ID** header. Issue and Suggestion values continue across lines
// until the next field, the next finding, or a block terminator.
func parseFindings(text string) []Finding {
	lines := strings.Split(text, "\n")

	var findings []Finding
	i := 0
	for i < len(lines) {
		header := headerRe.FindStringSubmatch(lines[i])
		if header == nil {
			i++
			continue
		}

		f := Finding{
			ID:       strings.TrimSpace(header[1]),
			Category: strings.TrimSpace(header[2]),
		}
		i++

		complete := false
		for i < len(lines) {
			line := lines[i]
			if headerRe.MatchString(line) || terminatorRe.MatchString(line) {
				break
			}

			if m := fileRe.FindStringSubmatch(line); m != nil {
				f.FilePath = strings.TrimSpace(m[1])
				if m[2] != "" {
					f.LineNumber, _ = strconv.Atoi(m[2])
				}
				i++
				continue
			}

			if m := issueRe.FindStringSubmatch(line); m != nil {
				f.Issue, i = collectField(lines, i, m[1])
				continue
			}

			if m := suggestionRe.FindStringSubmatch(line); m != nil {
				f.Suggestion, i = collectField(lines, i, m[1])
				complete = true
				continue
			}

			i++
		}

		if complete && f.FilePath != "" && f.Issue != "" {
			findings = append(findings, f)
		}
	}

	return findings
}

// collectField gathers a field value starting at lines[start] with the given
// first-line value, appending continuation lines until another field, finding
// header, or terminator begins. Returns the joined value and the index of the
// first unconsumed line.
func collectField(lines []string, start int, first string) (string, int) {
	parts := []string{strings.TrimSpace(first)}
	i := start + 1
	for i < len(lines) {
		line := lines[i]
		if fieldRe.MatchString(line) || headerRe.MatchString(line) || terminatorRe.MatchString(line) {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		parts = append(parts, trimmed)
		i++
	}
	return strings.Join(parts, "\n"), i
}

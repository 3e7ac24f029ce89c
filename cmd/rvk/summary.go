package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/reviewkit/reviewkit/internal/domain"
)

// newSummaryTable creates a borderless left-aligned table.
func newSummaryTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// printSummary renders the per-reviewer results table and the totals.
func printSummary(w io.Writer, reviewers []domain.ReviewerSpec, results []domain.ReviewerResult) {
	levels := map[string]domain.Level{}
	for _, spec := range reviewers {
		levels[spec.Name] = spec.Level
	}

	fmt.Fprintln(w)
	table := newSummaryTable(w, []string{"Reviewer", "Level", "Status", "Details"})
	for _, r := range results {
		table.Append(summaryRow(r, levels[r.ReviewerName]))
	}
	_ = table.Render()

	passed, failed, skipped := 0, 0, 0
	unfixed := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Success:
			passed++
		default:
			failed++
		}
		if r.FixSkipped {
			unfixed += len(r.Findings())
		}
	}

	fmt.Fprintf(w, "\nPassed: %d, Failed: %d, Skipped: %d\n", passed, failed, skipped)
	if unfixed > 0 {
		fmt.Fprintf(w, "Findings (not fixed): %d\n", unfixed)
	}
}

func summaryRow(r domain.ReviewerResult, level domain.Level) []string {
	switch {
	case r.Skipped:
		return []string{r.ReviewerName, string(level), "skipped", "language filter"}
	case !r.Success:
		return []string{r.ReviewerName, string(level), "failed", r.Error}
	default:
		return []string{r.ReviewerName, string(level), "passed", findingsDetail(r)}
	}
}

func findingsDetail(r domain.ReviewerResult) string {
	findings := r.Findings()
	if len(findings) == 0 {
		return ""
	}
	if r.FixSkipped {
		return fmt.Sprintf("%d findings (not fixed)", len(findings))
	}

	fixed := 0
	for _, fr := range r.FixResults {
		if fr.Success {
			fixed++
		}
	}
	return fmt.Sprintf("%d findings, %d fixed", len(findings), fixed)
}

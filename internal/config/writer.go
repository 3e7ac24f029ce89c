package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reviewkit/reviewkit/internal/domain"
)

// projectSectionHeader marks the start of hand-written project notes. The
// reviewer block is inserted above it so regeneration never disturbs them.
const projectSectionHeader = "## Project-Specific Instructions"

// RenderReviewerBlock produces the marker-delimited block for the given
// roster.
func RenderReviewerBlock(reviewers []domain.ReviewerSpec) (string, error) {
	out, err := yaml.Marshal(reviewerFile{Reviewers: reviewers})
	if err != nil {
		return "", fmt.Errorf("failed to render reviewer block: %w", err)
	}

	var b strings.Builder
	b.WriteString(StartMarker)
	b.WriteString("\n```yaml\n")
	b.Write(out)
	b.WriteString("```\n")
	b.WriteString(EndMarker)
	b.WriteString("\n")
	return b.String(), nil
}

// WriteReviewerBlock writes the roster into the config file at path,
// replacing an existing block or inserting a new one. A missing file is
// created with a Reviewers section.
func WriteReviewerBlock(path string, reviewers []domain.ReviewerSpec) error {
	block, err := RenderReviewerBlock(reviewers)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		content := "## Reviewers\n\n" + block
		return os.WriteFile(path, []byte(content), 0644)
	}

	content := string(data)
	var updated string
	switch {
	case HasReviewerBlock(content):
		updated = replaceBlock(content, block)
	case strings.Contains(content, projectSectionHeader):
		idx := strings.Index(content, projectSectionHeader)
		updated = content[:idx] + block + "\n" + content[idx:]
	default:
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		updated = content + "\n" + block
	}

	return os.WriteFile(path, []byte(updated), 0644)
}

func replaceBlock(content, block string) string {
	start := strings.Index(content, StartMarker)
	end := strings.Index(content, EndMarker)
	if start == -1 || end == -1 || end < start {
		return content
	}
	end += len(EndMarker)
	// Swallow the trailing newline of the old block, the new block
	// carries its own.
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return content[:start] + block + content[end:]
}

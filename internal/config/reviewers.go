// Package config manages the reviewer roster stored in the project's
// CLAUDE.md between marker comments.
package config

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reviewkit/reviewkit/internal/domain"
)

const (
	// StartMarker and EndMarker delimit the managed reviewer block.
	StartMarker = "<!-- REVIEWKIT:REVIEWERS:START -->"
	EndMarker   = "<!-- REVIEWKIT:REVIEWERS:END -->"

	// ConfigFilename is the file the reviewer block lives in.
	ConfigFilename = "CLAUDE.md"
)

// blockRe extracts the yaml fenced code block between the markers.
var blockRe = regexp.MustCompile(`(?s)<!-- REVIEWKIT:REVIEWERS:START -->.*?` + "```yaml\n(.*?)```" + `.*?<!-- REVIEWKIT:REVIEWERS:END -->`)

type reviewerFile struct {
	Reviewers []domain.ReviewerSpec `yaml:"reviewers"`
}

// DefaultReviewers returns the built-in roster used when a project has no
// reviewer block of its own.
func DefaultReviewers() []domain.ReviewerSpec {
	return []domain.ReviewerSpec{
		{Name: "code-simplifier", Skill: "reviewers/code-simplifier", Level: domain.LevelBlocking},
		{Name: "repo-structure", Skill: "reviewers/repo-structure", Level: domain.LevelWarning},
		{Name: "python-code", Skill: "reviewers/language/python", Level: domain.LevelBlocking, Languages: []string{"python"}},
		{Name: "github-actions", Skill: "reviewers/github-actions", Level: domain.LevelWarning},
		{Name: "test-quality", Skill: "reviewers/test-quality", Level: domain.LevelBlocking},
		{Name: "release", Skill: "reviewers/release", Level: domain.LevelBlocking},
	}
}

// LoadReviewers reads the reviewer roster from the config file at path.
// Missing file, missing markers, or malformed YAML all fall back to the
// default roster so a review run never aborts on configuration.
func LoadReviewers(path string) []domain.ReviewerSpec {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultReviewers()
	}
	return ParseReviewers(string(data))
}

// ParseReviewers extracts the reviewer roster from config file content.
func ParseReviewers(content string) []domain.ReviewerSpec {
	m := blockRe.FindStringSubmatch(content)
	if m == nil {
		return DefaultReviewers()
	}

	var parsed reviewerFile
	if err := yaml.Unmarshal([]byte(m[1]), &parsed); err != nil {
		return DefaultReviewers()
	}
	if len(parsed.Reviewers) == 0 {
		return DefaultReviewers()
	}

	reviewers := parsed.Reviewers[:0:0]
	for _, r := range parsed.Reviewers {
		if r.Name == "" || r.Skill == "" {
			continue
		}
		if !r.Level.Valid() {
			r.Level = domain.LevelWarning
		}
		reviewers = append(reviewers, r)
	}
	if len(reviewers) == 0 {
		return DefaultReviewers()
	}
	return reviewers
}

// HasReviewerBlock reports whether content contains a managed reviewer
// block, even an empty one.
func HasReviewerBlock(content string) bool {
	return strings.Contains(content, StartMarker) && strings.Contains(content, EndMarker)
}

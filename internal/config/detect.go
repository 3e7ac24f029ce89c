package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewkit/reviewkit/internal/domain"
)

// Detection pairs a reviewer with the reason it was selected for this
// project.
type Detection struct {
	Reviewer domain.ReviewerSpec
	Reason   string
}

// DetectReviewers inspects the project at root and returns the reviewers
// that apply to it, each with a human-readable reason. Universal
// reviewers are always included.
func DetectReviewers(root string) []Detection {
	universal := "universal reviewer (included for all projects)"
	detections := []Detection{
		{Reviewer: domain.ReviewerSpec{Name: "code-simplifier", Skill: "reviewers/code-simplifier", Level: domain.LevelBlocking}, Reason: universal},
		{Reviewer: domain.ReviewerSpec{Name: "repo-structure", Skill: "reviewers/repo-structure", Level: domain.LevelWarning}, Reason: universal},
	}

	if hasFilesMatching(root, func(name string) bool { return strings.HasSuffix(name, ".py") }) {
		detections = append(detections, Detection{
			Reviewer: domain.ReviewerSpec{Name: "python-code", Skill: "reviewers/language/python", Level: domain.LevelBlocking, Languages: []string{"python"}},
			Reason:   "found .py files",
		})
	}

	if hasFilesMatching(root, func(name string) bool { return strings.HasSuffix(name, ".bicep") }) {
		detections = append(detections, Detection{
			Reviewer: domain.ReviewerSpec{Name: "bicep-code", Skill: "reviewers/language/bicep", Level: domain.LevelBlocking, Languages: []string{"bicep"}},
			Reason:   "found .bicep files",
		})
	}

	if hasWorkflowFiles(root) {
		detections = append(detections, Detection{
			Reviewer: domain.ReviewerSpec{Name: "github-actions", Skill: "reviewers/github-actions", Level: domain.LevelWarning},
			Reason:   "found .github/workflows/*.yml files",
		})
	}

	if hasFilesMatching(root, isTestFile) {
		detections = append(detections, Detection{
			Reviewer: domain.ReviewerSpec{Name: "test-quality", Skill: "reviewers/test-quality", Level: domain.LevelBlocking},
			Reason:   "found test_*.py or *_test.py files",
		})
	}

	if _, err := os.Stat(filepath.Join(root, "CHANGELOG.md")); err == nil {
		detections = append(detections, Detection{
			Reviewer: domain.ReviewerSpec{Name: "release", Skill: "reviewers/release", Level: domain.LevelBlocking},
			Reason:   "found CHANGELOG.md",
		})
	}

	return detections
}

func isTestFile(name string) bool {
	return (strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py")) ||
		strings.HasSuffix(name, "_test.py")
}

func hasWorkflowFiles(root string) bool {
	dir := filepath.Join(root, ".github", "workflows")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yml") || strings.HasSuffix(e.Name(), ".yaml") {
			return true
		}
	}
	return false
}

func hasFilesMatching(root string, match func(name string) bool) bool {
	found := false
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" || d.Name() == ".venv" {
				return filepath.SkipDir
			}
			return nil
		}
		if match(d.Name()) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func detectedNames(detections []Detection) map[string]string {
	names := map[string]string{}
	for _, d := range detections {
		names[d.Reviewer.Name] = d.Reason
	}
	return names
}

func TestDetectReviewersUniversal(t *testing.T) {
	names := detectedNames(DetectReviewers(t.TempDir()))

	for _, universal := range []string{"code-simplifier", "repo-structure"} {
		reason, ok := names[universal]
		if !ok {
			t.Errorf("missing universal reviewer %s", universal)
			continue
		}
		if reason != "universal reviewer (included for all projects)" {
			t.Errorf("%s reason = %q", universal, reason)
		}
	}
	if len(names) != 2 {
		t.Errorf("empty project detected %d reviewers, want only the 2 universal ones: %v", len(names), names)
	}
}

func TestDetectReviewersPython(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/app.py")

	names := detectedNames(DetectReviewers(root))
	if names["python-code"] != "found .py files" {
		t.Errorf("python-code reason = %q", names["python-code"])
	}
	if _, ok := names["test-quality"]; ok {
		t.Error("test-quality detected without test files")
	}
}

func TestDetectReviewersTests(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"pytest prefix", "tests/test_app.py"},
		{"suffix style", "app_test.py"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			touch(t, root, tt.file)

			names := detectedNames(DetectReviewers(root))
			if names["test-quality"] != "found test_*.py or *_test.py files" {
				t.Errorf("test-quality reason = %q", names["test-quality"])
			}
		})
	}
}

func TestDetectReviewersWorkflowsAndRelease(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".github/workflows/ci.yml", "CHANGELOG.md", "infra/main.bicep")

	names := detectedNames(DetectReviewers(root))
	if names["github-actions"] != "found .github/workflows/*.yml files" {
		t.Errorf("github-actions reason = %q", names["github-actions"])
	}
	if names["release"] != "found CHANGELOG.md" {
		t.Errorf("release reason = %q", names["release"])
	}
	if names["bicep-code"] != "found .bicep files" {
		t.Errorf("bicep-code reason = %q", names["bicep-code"])
	}
}

func TestDetectReviewersSkipsDotGit(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".git/hooks/sample.py")

	names := detectedNames(DetectReviewers(root))
	if _, ok := names["python-code"]; ok {
		t.Error("python-code detected from files inside .git")
	}
}

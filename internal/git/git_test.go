package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// createTestRepo initializes a git repository with one commit and
// returns its path.
func createTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	commands := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@example.com"},
		{"git", "config", "user.name", "Test User"},
	}
	for _, args := range commands {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, out)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("initial\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	svc := NewService(dir)
	if _, err := svc.Commit("initial commit", true); err != nil {
		t.Fatalf("initial commit failed: %v", err)
	}

	return dir
}

func TestHasChanges(t *testing.T) {
	dir := createTestRepo(t)
	svc := NewService(dir)

	dirty, err := svc.HasChanges()
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if dirty {
		t.Error("HasChanges() = true on a clean tree")
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("content\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	dirty, err = svc.HasChanges()
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if !dirty {
		t.Error("HasChanges() = false after adding an untracked file")
	}
}

func TestCommit(t *testing.T) {
	dir := createTestRepo(t)
	svc := NewService(dir)

	if err := os.WriteFile(filepath.Join(dir, "fix.txt"), []byte("fixed\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	hash, err := svc.Commit("fix(review): security - SEC-001 - test fix", true)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{40}$`).MatchString(hash) {
		t.Errorf("Commit() hash = %q, want 40 hex chars", hash)
	}

	dirty, err := svc.HasChanges()
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if dirty {
		t.Error("tree still dirty after Commit with addAll")
	}
}

func TestCommitNothingStaged(t *testing.T) {
	dir := createTestRepo(t)
	svc := NewService(dir)

	_, err := svc.Commit("empty", false)
	if err == nil {
		t.Error("Commit() should fail with nothing to commit")
	}
}

func TestRoot(t *testing.T) {
	dir := createTestRepo(t)

	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	root, err := NewService(sub).Root()
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	// Compare resolved paths; macOS tempdirs sit behind a symlink.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("Root() = %q, want %q", got, want)
	}
}

func TestRunFailure(t *testing.T) {
	svc := NewService(t.TempDir())
	_, err := svc.run("rev-parse", "HEAD")
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
	if !strings.Contains(err.Error(), "git rev-parse failed") {
		t.Errorf("error = %v, want prefix 'git rev-parse failed'", err)
	}
}

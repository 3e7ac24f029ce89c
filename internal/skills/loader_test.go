package skills

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	skillDir := filepath.Join(dir, "reviewers", "code-simplifier")
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatalf("failed to create skill dir: %v", err)
	}
	content := "# Code Simplifier\n\nLook for needless complexity.\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write skill: %v", err)
	}

	loader := NewLoader(dir)
	got, err := loader.Load("reviewers/code-simplifier")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != content {
		t.Errorf("Load() = %q, want %q", got, content)
	}
}

func TestLoadMissingSkill(t *testing.T) {
	loader := NewLoader(t.TempDir())

	_, err := loader.Load("reviewers/nonexistent")
	if err == nil {
		t.Fatal("expected error for missing skill")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.Skill != "reviewers/nonexistent" {
		t.Errorf("Skill = %q, want %q", nf.Skill, "reviewers/nonexistent")
	}
	if !strings.Contains(nf.Error(), "SKILL.md") {
		t.Errorf("error message should mention SKILL.md, got %q", nf.Error())
	}
}

func TestLoadMissingSkillFile(t *testing.T) {
	dir := t.TempDir()
	// Directory exists but SKILL.md is absent.
	if err := os.MkdirAll(filepath.Join(dir, "empty-skill"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	loader := NewLoader(dir)
	_, err := loader.Load("empty-skill")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}

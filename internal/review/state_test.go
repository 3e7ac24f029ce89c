package review

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reviewkit/reviewkit/internal/domain"
)

func sampleRoster() []domain.ReviewerSpec {
	return []domain.ReviewerSpec{
		{Name: "security", Skill: "reviewers/security", Level: domain.LevelBlocking, Languages: []string{"python", "go"}},
		{Name: "docs", Skill: "reviewers/docs", Level: domain.LevelWarning},
	}
}

func TestComputeConfigHashStable(t *testing.T) {
	a := ComputeConfigHash(sampleRoster())
	b := ComputeConfigHash(sampleRoster())
	if a != b {
		t.Errorf("hash not stable: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestComputeConfigHashLanguageOrderInsensitive(t *testing.T) {
	roster := sampleRoster()
	shuffledLangs := sampleRoster()
	shuffledLangs[0].Languages = []string{"go", "python"}
	if ComputeConfigHash(roster) != ComputeConfigHash(shuffledLangs) {
		t.Error("hash changed when language order changed")
	}
}

func TestComputeConfigHashReviewerOrderDependent(t *testing.T) {
	roster := sampleRoster()
	reversed := []domain.ReviewerSpec{roster[1], roster[0]}
	if ComputeConfigHash(roster) == ComputeConfigHash(reversed) {
		t.Error("hash unchanged after reordering reviewers: sequence is part of the configuration")
	}
}

func TestComputeConfigHashSensitive(t *testing.T) {
	base := ComputeConfigHash(sampleRoster())

	changed := sampleRoster()
	changed[1].Level = domain.LevelBlocking
	if ComputeConfigHash(changed) == base {
		t.Error("hash unchanged after level change")
	}

	changed = sampleRoster()
	changed[0].Skill = "reviewers/other"
	if ComputeConfigHash(changed) == base {
		t.Error("hash unchanged after skill change")
	}

	changed = append(sampleRoster(), domain.ReviewerSpec{Name: "extra", Skill: "reviewers/extra", Level: domain.LevelSuggestion})
	if ComputeConfigHash(changed) == base {
		t.Error("hash unchanged after adding a reviewer")
	}
}

func TestComputeConfigHashNilVsEmptyLanguages(t *testing.T) {
	withNil := []domain.ReviewerSpec{{Name: "a", Skill: "s", Level: domain.LevelBlocking, Languages: nil}}
	withEmpty := []domain.ReviewerSpec{{Name: "a", Skill: "s", Level: domain.LevelBlocking, Languages: []string{}}}
	if ComputeConfigHash(withNil) != ComputeConfigHash(withEmpty) {
		t.Error("nil and empty language lists should hash identically")
	}
}

func TestStateSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFilename)

	state := NewState(sampleRoster())
	state.Completed["security"] = true
	state.Completed["docs"] = false

	if err := state.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadState() = nil for a saved file")
	}
	if loaded.ConfigHash != state.ConfigHash {
		t.Errorf("ConfigHash = %q, want %q", loaded.ConfigHash, state.ConfigHash)
	}
	if !loaded.Completed["security"] || loaded.Completed["docs"] {
		t.Errorf("Completed = %v, want security=true docs=false", loaded.Completed)
	}
	if len(loaded.ReviewerNames) != 2 || loaded.ReviewerNames[0] != "security" {
		t.Errorf("ReviewerNames = %v", loaded.ReviewerNames)
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), StateFilename))
	if err != nil {
		t.Errorf("LoadState() error = %v, want nil", err)
	}
	if state != nil {
		t.Errorf("LoadState() = %+v, want nil for missing file", state)
	}
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFilename)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Errorf("LoadState() error = %v, want nil", err)
	}
	if state != nil {
		t.Error("LoadState() should treat a corrupt file as no state")
	}
}

func TestRemoveStateMissingFile(t *testing.T) {
	if err := RemoveState(filepath.Join(t.TempDir(), StateFilename)); err != nil {
		t.Errorf("RemoveState() on missing file error = %v, want nil", err)
	}
}

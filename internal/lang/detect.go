// Package lang detects which languages a project uses, so reviewers with
// a language filter only run where they apply.
package lang

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markerFiles maps project files to the language they indicate.
var markerFiles = map[string]string{
	"pyproject.toml":   "python",
	"setup.py":         "python",
	"requirements.txt": "python",
	"package.json":     "javascript",
	"tsconfig.json":    "typescript",
	"go.mod":           "go",
	"Cargo.toml":       "rust",
}

// Detect returns the sorted set of languages found in the project rooted
// at root. Marker files are checked at the root only; bicep is detected
// by walking for .bicep files.
func Detect(root string) []string {
	found := map[string]bool{}

	for marker, language := range markerFiles {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			found[language] = true
		}
	}

	if hasBicepFiles(root) {
		found["bicep"] = true
	}

	languages := make([]string, 0, len(found))
	for language := range found {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

func hasBicepFiles(root string) bool {
	found := false
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".bicep") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

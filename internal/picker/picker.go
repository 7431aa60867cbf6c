// Package picker provides interactive selection of the traversal root.
package picker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/snapgen/snapgen/internal/snapshot"
)

// PickRoot walks the current directory for candidate roots, honoring the same
// exclusion rules as the snapshot itself, and lets the user pick one with a
// fuzzy finder. Returns "" with a nil error when the user aborts.
func PickRoot(classifier *snapshot.Classifier) (string, error) {
	candidates := []string{"."}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees just don't become candidates
		}
		if path == "." || !d.IsDir() {
			return nil
		}
		rel := "./" + filepath.ToSlash(path)
		if classifier.Excluded(rel, true) {
			return fs.SkipDir
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning for candidate roots: %w", err)
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory to snapshot."
			}
			info, statErr := os.Stat(candidates[i])
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError: %v", candidates[i], statErr)
			}
			return fmt.Sprintf("Path: %s\nModified: %s", candidates[i], info.ModTime().Format("2006-01-02 15:04"))
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder: %w", err)
	}
	return candidates[idx], nil
}

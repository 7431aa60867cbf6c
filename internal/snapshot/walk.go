package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/snapgen/snapgen/internal/redact"
)

// Stats carries the per-run counters reported in the console summary.
type Stats struct {
	FilesCaptured int
	ItemsSkipped  int
}

// FileSection is one captured file: its canonical relative path, content
// after redaction, and whether anything was redacted.
type FileSection struct {
	RelPath  string
	Content  string
	Redacted bool
}

// Result is the outcome of a single traversal: the relative paths of all
// non-excluded entries (directories carry a trailing slash), the captured
// file sections in traversal order, and the counters.
type Result struct {
	TreePaths []string
	Sections  []FileSection
	Stats     Stats
}

// Walker performs the depth-first traversal, consulting the classifier per
// entry and loading/redacting the files it keeps. Children are visited in
// lexicographic name order so repeated runs over an unchanged tree are
// byte-identical.
type Walker struct {
	classifier *Classifier
	loader     Loader
	redactor   *redact.Redactor
	log        *zap.Logger
}

// NewWalker wires a traversal over the given classifier and redactor.
func NewWalker(classifier *Classifier, redactor *redact.Redactor, log *zap.Logger) *Walker {
	return &Walker{classifier: classifier, redactor: redactor, log: log}
}

// Walk traverses root and returns the accumulated result. The root itself is
// never part of the tree listing. An unreadable root is the one fatal case;
// everything below it degrades to warnings and skip counts.
func (w *Walker) Walk(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving traversal root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("accessing traversal root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("traversal root %s is not a directory", root)
	}

	visited := make(map[string]bool)
	if canonical, err := filepath.EvalSymlinks(absRoot); err == nil {
		visited[canonical] = true
	}

	result := &Result{}
	if err := w.walkDir(absRoot, absRoot, visited, result); err != nil {
		return nil, fmt.Errorf("reading traversal root %s: %w", root, err)
	}
	return result, nil
}

func (w *Walker) walkDir(root, dir string, visited map[string]bool, result *Result) error {
	// os.ReadDir returns entries sorted by name, which is exactly the
	// deterministic order the tree listing depends on.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Stat instead of the DirEntry type so symlinks resolve to their
		// targets, matching host filesystem semantics.
		info, err := os.Stat(entryPath)
		if err != nil {
			w.log.Warn("cannot stat entry, skipping", zap.String("path", entryPath), zap.Error(err))
			result.Stats.ItemsSkipped++
			continue
		}
		isDir := info.IsDir()
		rel := relPath(root, entryPath)

		if w.classifier.Excluded(rel, isDir) {
			result.Stats.ItemsSkipped++
			continue
		}

		if isDir {
			canonical, err := filepath.EvalSymlinks(entryPath)
			if err == nil {
				if visited[canonical] {
					w.log.Warn("directory already visited, skipping symlink cycle", zap.String("path", entryPath))
					result.Stats.ItemsSkipped++
					continue
				}
				visited[canonical] = true
			}

			result.TreePaths = append(result.TreePaths, rel+"/")
			if err := w.walkDir(root, entryPath, visited, result); err != nil {
				w.log.Warn("cannot read directory", zap.String("path", entryPath), zap.Error(err))
				result.Stats.ItemsSkipped++
			}
			continue
		}

		result.TreePaths = append(result.TreePaths, rel)
		content := w.loader.Load(entryPath)
		sanitized, redacted := w.redactor.Apply(content)
		result.Sections = append(result.Sections, FileSection{
			RelPath:  rel,
			Content:  sanitized,
			Redacted: redacted,
		})
		result.Stats.FilesCaptured++
	}
	return nil
}

// relPath renders target relative to root in the canonical form used
// everywhere in the snapshot: leading "./", forward slashes.
func relPath(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		rel = target
	}
	return "./" + filepath.ToSlash(rel)
}

// Package snapshot implements the traversal, filtering and formatting
// pipeline that turns a directory tree into a single LLM-optimized text
// document.
package snapshot

import (
	"path"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/snapgen/snapgen/internal/config"
)

// Classifier decides per entry whether it is excluded from the snapshot.
// Directories excluded here are never descended into.
type Classifier struct {
	exclude config.ExclusionPolicy
	include config.InclusionPolicy
	ignore  gitignore.IgnoreMatcher
}

// NewClassifier builds a classifier over the given policies. The ignore
// matcher is optional; when present it is consulted after the env-file rule
// and before the extension rule.
func NewClassifier(exclude config.ExclusionPolicy, include config.InclusionPolicy, ignore gitignore.IgnoreMatcher) *Classifier {
	return &Classifier{exclude: exclude, include: include, ignore: ignore}
}

// Excluded reports whether the entry at relPath (canonical "./..." form,
// no trailing slash) should be skipped. Rules apply in precedence order,
// first match wins:
//
//  1. always-excluded basename
//  2. excluded directory name (directories only)
//  3. excluded relative path prefix
//  4. env-style file that is not the designated example file
//  5. extension / always-included basename check (files only)
func (c *Classifier) Excluded(relPath string, isDir bool) bool {
	base := path.Base(strings.TrimPrefix(relPath, "./"))

	if c.exclude.ExcludesFileName(base) {
		return true
	}
	if isDir && c.exclude.ExcludesDirName(base) {
		return true
	}
	prefixForm := relPath
	if isDir {
		prefixForm += "/"
	}
	if c.exclude.ExcludesPath(prefixForm) {
		return true
	}
	if strings.HasPrefix(base, config.EnvFilePrefix) && base != config.EnvExampleFile {
		return true
	}
	if c.ignore != nil && c.ignore.Match(strings.TrimPrefix(relPath, "./"), isDir) {
		return true
	}
	if isDir {
		return false
	}
	if c.include.AllowsFileName(base) {
		return false
	}
	return !c.include.AllowsExtension(path.Ext(base))
}

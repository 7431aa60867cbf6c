// Package config holds the immutable filtering policies for a snapshot run.
// Policies are built once at startup (defaults, optionally overridden from the
// config file) and never mutated afterwards.
package config

import (
	"sort"
	"strings"
)

// DefaultOutputFile is the snapshot filename written into the traversal root
// unless an explicit destination is given.
const DefaultOutputFile = "repo_snapshot.txt"

// EnvFilePrefix marks environment-variable files (.env, .env.local, ...).
const EnvFilePrefix = ".env"

// EnvExampleFile is the one env-style file that is allowed through.
const EnvExampleFile = ".env.example"

// ExclusionPolicy decides which entries never make it into a snapshot.
type ExclusionPolicy struct {
	dirNames     map[string]bool
	pathPrefixes []string
	fileNames    map[string]bool
}

// InclusionPolicy decides which files are captured once nothing excluded them.
type InclusionPolicy struct {
	extensions map[string]bool
	fileNames  map[string]bool
}

// NewExclusionPolicy normalizes the given sets into an immutable policy.
// Path prefixes are canonicalized to the "./name/" form used for relative
// paths throughout the tool.
func NewExclusionPolicy(dirNames, pathPrefixes, fileNames []string) ExclusionPolicy {
	policy := ExclusionPolicy{
		dirNames:  make(map[string]bool, len(dirNames)),
		fileNames: make(map[string]bool, len(fileNames)),
	}
	for _, name := range dirNames {
		if name != "" {
			policy.dirNames[name] = true
		}
	}
	for _, name := range fileNames {
		if name != "" {
			policy.fileNames[name] = true
		}
	}
	for _, prefix := range pathPrefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		prefix = strings.ReplaceAll(prefix, "\\", "/")
		if !strings.HasPrefix(prefix, "./") {
			prefix = "./" + strings.TrimPrefix(prefix, "/")
		}
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		policy.pathPrefixes = append(policy.pathPrefixes, prefix)
	}
	sort.Strings(policy.pathPrefixes)
	return policy
}

// WithFileName returns a copy of the policy that additionally excludes the
// given basename. Used to keep the output artifact out of its own snapshot.
func (p ExclusionPolicy) WithFileName(name string) ExclusionPolicy {
	fileNames := make(map[string]bool, len(p.fileNames)+1)
	for k := range p.fileNames {
		fileNames[k] = true
	}
	if name != "" {
		fileNames[name] = true
	}
	return ExclusionPolicy{
		dirNames:     p.dirNames,
		pathPrefixes: p.pathPrefixes,
		fileNames:    fileNames,
	}
}

// ExcludesDirName reports whether a directory basename is excluded outright.
func (p ExclusionPolicy) ExcludesDirName(name string) bool {
	return p.dirNames[name]
}

// ExcludesFileName reports whether a basename is always excluded.
func (p ExclusionPolicy) ExcludesFileName(name string) bool {
	return p.fileNames[name]
}

// ExcludesPath reports whether a canonical "./..."-form relative path falls
// under one of the excluded path prefixes.
func (p ExclusionPolicy) ExcludesPath(relPath string) bool {
	for _, prefix := range p.pathPrefixes {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

// NewInclusionPolicy normalizes the allowed extension set (lower-cased, dot
// prefixed) and the always-included basenames into an immutable policy.
func NewInclusionPolicy(extensions, fileNames []string) InclusionPolicy {
	policy := InclusionPolicy{
		extensions: make(map[string]bool, len(extensions)),
		fileNames:  make(map[string]bool, len(fileNames)),
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		policy.extensions[ext] = true
	}
	for _, name := range fileNames {
		if name != "" {
			policy.fileNames[name] = true
		}
	}
	return policy
}

// AllowsExtension reports whether a (lower-cased) extension is capturable.
func (p InclusionPolicy) AllowsExtension(ext string) bool {
	return p.extensions[strings.ToLower(ext)]
}

// AllowsFileName reports whether a basename is captured regardless of
// extension.
func (p InclusionPolicy) AllowsFileName(name string) bool {
	return p.fileNames[name]
}

// DefaultAllowedExtensions is the extension allowlist applied when the config
// file does not override it.
func DefaultAllowedExtensions() []string {
	return []string{".py", ".md", ".json", ".toml", ".txt", ".sh", ".ipynb", ".go", ".yml", ".yaml"}
}

// DefaultExcludedDirNames lists directories that are never descended into.
func DefaultExcludedDirNames() []string {
	return []string{
		"node_modules", ".git", "dist", "build", ".vscode", "__pycache__",
		".pytest_cache", "venv", ".venv", "env", "vendor",
	}
}

// DefaultExcludedPathPrefixes lists relative subtrees skipped wholesale,
// typically large data or model artifact directories.
func DefaultExcludedPathPrefixes() []string {
	return []string{"./data/", "./models/"}
}

// DefaultExcludedFileNames lists basenames that never appear in a snapshot.
func DefaultExcludedFileNames() []string {
	return []string{".gitignore", ".DS_Store", ".env", "poetry.lock", "package-lock.json", "go.sum"}
}

// DefaultIncludedFileNames lists basenames captured even though their
// extension is not in the allowlist.
func DefaultIncludedFileNames() []string {
	return []string{EnvExampleFile, "Makefile", "Dockerfile", "go.mod"}
}

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snapgen/snapgen/internal/config"
)

func defaultClassifier() *Classifier {
	exclusion := config.NewExclusionPolicy(
		config.DefaultExcludedDirNames(),
		config.DefaultExcludedPathPrefixes(),
		config.DefaultExcludedFileNames(),
	).WithFileName(config.DefaultOutputFile)
	inclusion := config.NewInclusionPolicy(
		config.DefaultAllowedExtensions(),
		config.DefaultIncludedFileNames(),
	)
	return NewClassifier(exclusion, inclusion, nil)
}

func TestClassifierPrecedence(t *testing.T) {
	c := defaultClassifier()

	tests := []struct {
		name     string
		relPath  string
		isDir    bool
		excluded bool
	}{
		{"always-excluded basename", "./src/.DS_Store", false, true},
		{"previous snapshot artifact", "./repo_snapshot.txt", false, true},
		{"excluded directory name", "./node_modules", true, true},
		{"excluded directory name nested", "./web/node_modules", true, true},
		{"dir name rule does not apply to files", "./docs/env", false, true}, // falls through to rule 5, no extension
		{"excluded path prefix dir", "./data", true, true},
		{"excluded path prefix file", "./data/raw.csv", false, true},
		{"similar but distinct prefix", "./datasets", true, false},
		{"env file", "./.env", false, true},
		{"env variant", "./.env.local", false, true},
		{"designated env example", "./.env.example", false, false},
		{"allowed extension", "./cmd/main.go", false, false},
		{"allowed extension uppercase", "./README.MD", false, false},
		{"always-included basename", "./Makefile", false, false},
		{"disallowed extension", "./image.png", false, true},
		{"no extension", "./LICENSE", false, true},
		{"ordinary directory", "./internal", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, c.Excluded(tt.relPath, tt.isDir))
		})
	}
}

func TestClassifierDirectoriesSkipExtensionRule(t *testing.T) {
	c := defaultClassifier()

	// A directory named like a file with a disallowed extension still gets
	// traversed; rule 5 is for files only.
	assert.False(t, c.Excluded("./assets.png", true))
	assert.True(t, c.Excluded("./assets.png", false))
}

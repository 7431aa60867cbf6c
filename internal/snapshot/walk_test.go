package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snapgen/snapgen/internal/redact"
)

func newTestWalker(t *testing.T) *Walker {
	t.Helper()
	redactor, err := redact.New(redact.DefaultSensitiveKeys())
	require.NoError(t, err)
	return NewWalker(defaultClassifier(), redactor, zap.NewNop())
}

// buildFixtureTree lays out a small project with one representative of every
// exclusion family.
func buildFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "raw"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0755))

	files := map[string]string{
		"b.txt":                  "hello\n",
		".env":                   "OPENAI_API_KEY=sk-abcdefghijklmnop\n",
		".env.example":           "OPENAI_API_KEY=redact-me\n",
		"creds.txt":              "OPENAI_API_KEY=sk-abcdefghijklmnop\n",
		"image.png":              "not captured",
		"a/c.md":                 "# c\n",
		"data/raw/set.txt":       "excluded by prefix",
		"node_modules/pkg/x.txt": "excluded by dir name",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestWalkFiltersAndCaptures(t *testing.T) {
	root := buildFixtureTree(t)
	walker := newTestWalker(t)

	result, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"./.env.example",
		"./a/",
		"./a/c.md",
		"./b.txt",
		"./creds.txt",
	}, result.TreePaths, "traversal order over sorted entries, root never listed")

	// .env, image.png, data, node_modules
	assert.Equal(t, 4, result.Stats.ItemsSkipped)
	assert.Equal(t, 4, result.Stats.FilesCaptured)

	var sectionPaths []string
	for _, section := range result.Sections {
		sectionPaths = append(sectionPaths, section.RelPath)
	}
	assert.Equal(t, []string{"./.env.example", "./a/c.md", "./b.txt", "./creds.txt"}, sectionPaths)
	assert.NotContains(t, sectionPaths, "./data/raw/set.txt")
	assert.NotContains(t, sectionPaths, "./node_modules/pkg/x.txt")
}

func TestWalkRedactsCapturedContent(t *testing.T) {
	root := buildFixtureTree(t)
	walker := newTestWalker(t)

	result, err := walker.Walk(root)
	require.NoError(t, err)

	var creds *FileSection
	for i := range result.Sections {
		if result.Sections[i].RelPath == "./creds.txt" {
			creds = &result.Sections[i]
		}
	}
	require.NotNil(t, creds)
	assert.True(t, creds.Redacted)
	assert.Equal(t, "OPENAI_API_KEY=[REDACTED]\n", creds.Content)
}

func TestWalkIsDeterministic(t *testing.T) {
	root := buildFixtureTree(t)
	walker := newTestWalker(t)

	first, err := walker.Walk(root)
	require.NoError(t, err)
	second, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWalkRootErrors(t *testing.T) {
	walker := newTestWalker(t)

	_, err := walker.Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = walker.Walk(file)
	assert.Error(t, err)
}

func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "f.txt"), []byte("x\n"), 0644))
	if err := os.Symlink(root, filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	walker := newTestWalker(t)
	result, err := walker.Walk(root)
	require.NoError(t, err)

	// The cycle link back to the root is skipped, not recursed.
	assert.Equal(t, []string{"./a/", "./a/f.txt"}, result.TreePaths)
	assert.Equal(t, 1, result.Stats.ItemsSkipped)
}

func TestRelPathUsesForwardSlashes(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "x", "y.txt")
	assert.Equal(t, "./x/y.txt", relPath(root, target))
}

package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestLoadPlainText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello.txt", []byte("hello\nworld\n"))
	assert.Equal(t, "hello\nworld\n", Loader{}.Load(path))
}

func TestLoadMissingFile(t *testing.T) {
	content := Loader{}.Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Contains(t, content, "Error reading file")
}

func TestLoadBinaryFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blob.txt", []byte{0x00, 0x01, 'a', 'b'})
	content := Loader{}.Load(path)
	assert.Contains(t, content, "Could not decode file")
	assert.Contains(t, content, "binary")
}

func TestLoadNotebook(t *testing.T) {
	path := writeFile(t, t.TempDir(), "analysis.ipynb", []byte(`{"nbformat":4,"cells":[{"cell_type":"code"}]}`))
	content := Loader{}.Load(path)

	// Re-serialized with stable 2-space indentation.
	assert.Contains(t, content, "{\n  \"cells\": [\n")
	assert.Contains(t, content, "\"cell_type\": \"code\"")
}

func TestLoadMalformedNotebook(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.ipynb", []byte("{not json"))
	content := Loader{}.Load(path)
	assert.Contains(t, content, "Error reading notebook")
}

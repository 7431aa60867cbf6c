package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const notebookExtension = ".ipynb"

// Loader reads file content for the snapshot. It never fails past its
// boundary: read and parse problems become descriptive placeholder text so a
// single bad file cannot abort a run.
type Loader struct{}

// Load returns the text content for path, or a placeholder describing why the
// content is unavailable.
func (Loader) Load(path string) string {
	if strings.EqualFold(filepath.Ext(path), notebookExtension) {
		return loadNotebook(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file %s: %v", path, err)
	}
	if isBinary(raw) {
		return fmt.Sprintf("Could not decode file: %s. It may be a binary file.", path)
	}
	return string(raw)
}

// loadNotebook re-serializes a Jupyter notebook with stable 2-space
// indentation so diffs of the snapshot stay readable.
func loadNotebook(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading notebook %s: %v", path, err)
	}
	var notebook any
	if err := json.Unmarshal(raw, &notebook); err != nil {
		return fmt.Sprintf("Error reading notebook %s: %v", path, err)
	}
	pretty, err := json.MarshalIndent(notebook, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error reading notebook %s: %v", path, err)
	}
	return string(pretty)
}

// isBinary reports whether data looks like binary rather than text: invalid
// UTF-8 or embedded NUL bytes.
func isBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}

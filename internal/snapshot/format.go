package snapshot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/snapgen/snapgen/internal/tokencount"
)

const (
	documentTitle      = "# Repository Snapshot (LLM-Optimized)"
	treeSectionHeader  = "# Directory Structure (relative to project root)"
	fileSeparatorStart = "--- START OF FILE"
	fileSeparatorEnd   = "--- END OF FILE ---"
	redactionNote      = "[NOTE] Sensitive values were detected and redacted in this file."
)

// Document is a fully assembled snapshot.
type Document struct {
	Text       string // the complete snapshot text
	Preamble   string // header plus tree listing, reused by the PDF export
	TokenCount int
}

// Formatter assembles the final snapshot document. Now is injectable so
// tests can pin the Generated On line; Branch and Commit are optional
// repository metadata lines.
type Formatter struct {
	Now     func() time.Time
	Counter tokencount.Counter
	Branch  string
	Commit  string
}

// Render assembles header, tree listing and file sections into one document.
// The token estimate covers the entire final text: the document is measured
// once with a zero count line and the real count substituted afterwards, the
// self-referential drift of a few characters being within the approximation.
func (f *Formatter) Render(result *Result) Document {
	generatedAt := f.Now().UTC().Format(time.RFC3339)
	body := f.renderTree(result) + renderSections(result)

	estimate := f.Counter.Count(f.renderHeader(generatedAt, 0) + body)
	preamble := f.renderHeader(generatedAt, estimate) + f.renderTree(result)

	return Document{
		Text:       f.renderHeader(generatedAt, estimate) + body,
		Preamble:   preamble,
		TokenCount: estimate,
	}
}

func (f *Formatter) renderHeader(generatedAt string, tokenCount int) string {
	var b strings.Builder
	b.WriteString(documentTitle)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Generated On: %s\n", generatedAt)
	if f.Branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", f.Branch)
	}
	if f.Commit != "" {
		fmt.Fprintf(&b, "Commit: %s\n", f.Commit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "# Mnemonic Weight (Token Count): ~%s tokens\n\n", groupThousands(tokenCount))
	return b.String()
}

// renderTree emits the sorted tree listing, one indented canonical path per
// line. Sorting is global, not traversal order, so siblings and nested paths
// interleave deterministically regardless of walk order.
func (f *Formatter) renderTree(result *Result) string {
	paths := make([]string, len(result.TreePaths))
	copy(paths, result.TreePaths)
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString(treeSectionHeader)
	b.WriteString("\n")
	for _, p := range paths {
		b.WriteString("  ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderSections(result *Result) string {
	var b strings.Builder
	for _, section := range result.Sections {
		fmt.Fprintf(&b, "%s %s ---\n\n", fileSeparatorStart, section.RelPath)
		b.WriteString(section.Content)
		b.WriteString("\n")
		if section.Redacted {
			b.WriteString(redactionNote)
			b.WriteString("\n")
		}
		b.WriteString(fileSeparatorEnd)
		b.WriteString("\n\n")
	}
	return b.String()
}

// groupThousands renders n with comma digit grouping.
func groupThousands(n int) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Package pdfout renders an assembled snapshot as an A4 PDF with
// syntax-highlighted file sections.
package pdfout

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"

	"github.com/snapgen/snapgen/internal/snapshot"
)

const (
	pageWidth  = 210 // A4 width in mm
	margin     = 10
	lineHeight = 5
	fontSize   = 9
	tabWidth   = 4
)

// Write renders the snapshot preamble (header plus tree listing) and every
// file section into a PDF at outputPath.
func Write(outputPath, preamble string, sections []snapshot.FileSection) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	pdf.SetFont("Courier", "", fontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pageWidth-2*margin, lineHeight, preamble, "", "L", false)

	for _, section := range sections {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", fontSize+1)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pageWidth-2*margin, lineHeight, section.RelPath, "", "L", false)
		if section.Redacted {
			pdf.SetFont("Helvetica", "I", fontSize-1)
			pdf.MultiCell(pageWidth-2*margin, lineHeight, "Sensitive values were redacted in this file.", "", "L", false)
		}
		pdf.Line(margin, pdf.GetY(), pageWidth-margin, pdf.GetY())
		pdf.Ln(lineHeight / 2)

		if err := writeHighlighted(pdf, style, section); err != nil {
			// Highlighting is cosmetic; fall back to plain text.
			pdf.SetFont("Courier", "", fontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pageWidth-2*margin, lineHeight, section.Content, "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}

func writeHighlighted(pdf *gofpdf.Fpdf, style *chroma.Style, section snapshot.FileSection) error {
	lexer := lexers.Match(strings.TrimPrefix(section.RelPath, "./"))
	if lexer == nil {
		lexer = lexers.Analyse(section.Content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, section.Content)
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", section.RelPath, err)
	}

	pdf.SetFont("Courier", "", fontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}

		value := strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", tabWidth))
		pdf.Write(lineHeight, value)
	}
	pdf.Ln(-1)
	return nil
}

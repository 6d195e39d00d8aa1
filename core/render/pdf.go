// Package render — PDF renderer.
// Converts a Markdown report into a styled PDF using gofpdf.
// Handles headings (variable font sizes), paragraphs, lists and pipe tables.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var (
	numberedItem   = regexp.MustCompile(`^\d+\.\s`)
	tableSeparator = regexp.MustCompile(`^\|[-:| ]+\|$`)
)

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.ReportMetadata) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title from metadata.
	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Source: %s  Generated: %s", meta.Source, meta.GeneratedAt)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	lines := strings.Split(markdown, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// The report title is already printed from metadata.
		if i == 0 && strings.HasPrefix(line, "# ") {
			continue
		}

		if trimmed == "" {
			pdf.Ln(3)
			continue
		}

		// Pipe tables: gather consecutive rows.
		if strings.HasPrefix(trimmed, "|") {
			var rows [][]string
			for ; i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|"); i++ {
				row := strings.TrimSpace(lines[i])
				if tableSeparator.MatchString(row) {
					continue
				}
				rows = append(rows, splitTableRow(row))
			}
			i--
			renderTable(pdf, tr, rows)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch != '#' {
					break
				}
				level++
			}
			renderHeading(pdf, tr(strings.TrimSpace(strings.TrimLeft(line, "# "))), level)
			continue
		}

		pdf.SetFont("Helvetica", "", 10)
		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)
		case numberedItem.MatchString(trimmed):
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		default:
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// splitTableRow splits "| a | b \| c |" into cells, honouring escaped pipes.
func splitTableRow(row string) []string {
	row = strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	row = strings.ReplaceAll(row, `\|`, "\x00")
	parts := strings.Split(row, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(p, "\x00", "|"))
	}
	return parts
}

// renderTable draws rows in equal-width columns; the first row is the header.
func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (width - left - right) / float64(len(rows[0]))
	const lineHeight = 5.0

	for r, row := range rows {
		if r == 0 {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(230, 230, 230)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}

		// Row height follows the tallest wrapped cell.
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(pdf.SplitText(tr(cleanInlineMarkdown(cell)), colWidth-2)))
		}
		height := float64(lines) * lineHeight
		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for c := range rows[0] {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			pdf.Rect(x+float64(c)*colWidth, y, colWidth, height, "D")
			pdf.SetXY(x+float64(c)*colWidth, y)
			pdf.MultiCell(colWidth, lineHeight, tr(cleanInlineMarkdown(cell)), "", "L", r == 0)
		}
		pdf.SetXY(x, y+height)
	}
	pdf.Ln(2)
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

var (
	italicMarker = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	linkMarkup   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicMarker.ReplaceAllString(text, " $1 ")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = linkMarkup.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

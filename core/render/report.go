// Package render — Markdown report builder.
// A report has one section per topic. Multi-row topics become Markdown
// tables; single records become a list of labelled values.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// Title turns a snake_case name into a heading, e.g.
// "daily_weather_forecast" → "Daily Weather Forecast".
func Title(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// BuildReport renders the processed datasets of a page as Markdown.
func BuildReport(meta core.ReportMetadata, datasets []core.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	if meta.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", meta.Source)
	}

	for _, ds := range datasets {
		fmt.Fprintf(&b, "## %s\n\n", Title(ds.Topic))
		switch {
		case ds.Table.Len() == 0:
			b.WriteString("No data published.\n\n")
		case ds.Table.Single || ds.Table.Len() == 1:
			writeRecord(&b, ds.Table)
		default:
			writeTable(&b, ds.Table)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeRecord lists the first row as labelled values. Multi-line values
// (advisory bodies) follow their label as a paragraph.
func writeRecord(b *strings.Builder, t core.Table) {
	var block []string
	for c, col := range t.Columns {
		v := t.Rows[0][c]
		if strings.Contains(v, "\n") {
			block = append(block, fmt.Sprintf("**%s**\n\n%s", Title(col), v))
			continue
		}
		fmt.Fprintf(b, "- **%s:** %s\n", Title(col), v)
	}
	b.WriteString("\n")
	for _, s := range block {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
}

func writeTable(b *strings.Builder, t core.Table) {
	header := make([]string, len(t.Columns))
	sep := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = Title(col)
		sep[i] = "---"
	}
	writeTableRow(b, header)
	writeTableRow(b, sep)
	for _, row := range t.Rows {
		writeTableRow(b, row)
	}
	b.WriteString("\n")
}

func writeTableRow(b *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "\n", " ")
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(escaped, " | "))
}

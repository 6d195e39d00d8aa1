// Package render — JSON renderer.
// Builds a structured JSON report from the Markdown report and its metadata.
// Sections follow the report's headings; tables and list items are counted
// so consumers can sanity-check a day's report without parsing Markdown.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// ReportJSON is the document written by JSONRenderer.
type ReportJSON struct {
	Metadata  core.ReportMetadata `json:"metadata"`
	Content   ReportContent       `json:"content"`
	Structure ReportStructure     `json:"structure"`
}

// ReportContent holds the report text.
type ReportContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// ReportStructure summarizes the report's Markdown elements.
type ReportStructure struct {
	Headings  []Heading `json:"headings"`
	Tables    int       `json:"tables"`
	ListItems int       `json:"list_items"`
}

// Section is the text under one heading. Rows counts its table data rows.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
	Rows    int    `json:"rows"`
}

// Heading is a Markdown heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the Markdown report and metadata into a ReportJSON document.
func (r *JSONRenderer) Render(markdown string, meta core.ReportMetadata) ([]byte, error) {
	sections, structure := scanReport(markdown)

	report := ReportJSON{
		Metadata: meta,
		Content: ReportContent{
			Text:     stripMarkdown(markdown),
			Markdown: markdown,
			Sections: sections,
		},
		Structure: structure,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var (
	headingLine    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	listItemLine   = regexp.MustCompile(`^\s*(?:[-*]|\d+\.)\s`)
	headingRegex   = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	emphasisRegex  = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	blankRunsRegex = regexp.MustCompile(`\n{3,}`)
)

// scanReport walks the report line by line, splitting it into sections at
// each heading and counting tables and list items.
func scanReport(md string) ([]Section, ReportStructure) {
	structure := ReportStructure{Headings: []Heading{}}
	var sections []Section
	var body []string

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].Text = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	inTable := false
	for _, line := range strings.Split(md, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			h := Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])}
			structure.Headings = append(structure.Headings, h)
			sections = append(sections, Section{Heading: h.Text, Level: h.Level})
			inTable = false
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case tableSeparator.MatchString(trimmed):
			structure.Tables++
			inTable = true
		case inTable && strings.HasPrefix(trimmed, "|"):
			if len(sections) > 0 {
				sections[len(sections)-1].Rows++
			}
		default:
			inTable = false
			if listItemLine.MatchString(line) {
				structure.ListItems++
			}
		}
		body = append(body, line)
	}
	flush()
	return sections, structure
}

// stripMarkdown removes heading marks, emphasis, links and table rules.
func stripMarkdown(md string) string {
	text := headingRegex.ReplaceAllString(md, "$1")
	text = emphasisRegex.ReplaceAllString(text, "$1")
	text = linkMarkup.ReplaceAllString(text, "$1")
	text = inlineCode.ReplaceAllString(text, "$1")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !tableSeparator.MatchString(strings.TrimSpace(l)) {
			kept = append(kept, l)
		}
	}
	text = blankRunsRegex.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

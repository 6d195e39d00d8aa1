// Package core defines the pipeline interfaces for pagasapipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"time"
)

// Fetcher retrieves and parses a page. A failed fetch returns an error and a
// nil *Document, which every later stage treats as "no page published".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// Extractor decodes a parsed page into one Dataset per raw topic.
type Extractor interface {
	Extract(doc *Document) (*Extraction, error)
}

// Renderer converts a Markdown report (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta ReportMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Extraction is the output of a single Extractor run.
type Extraction struct {
	Datasets []Dataset
	// Warnings holds recoverable anomalies, such as rows skipped for shape.
	Warnings []error
}

// Dataset pairs a topic name with its tabular data.
type Dataset struct {
	Topic string
	Table Table
}

// Lookup returns the dataset for the given topic.
func (e *Extraction) Lookup(topic string) (Dataset, bool) {
	if e == nil {
		return Dataset{}, false
	}
	for _, ds := range e.Datasets {
		if ds.Topic == topic {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Page describes one scraped page type and how its topics move through the tiers.
type Page struct {
	Name      string
	URL       string
	Extractor Extractor
	Topics    []Topic
	// IssuedTopic names the topic whose staged table carries issued_date and
	// issued_time. Empty when the page has no issue timestamp.
	IssuedTopic string
}

// Topic is a single dataset of a page.
type Topic struct {
	Name string
	// Stage reshapes the trimmed raw table into its staged form and reports
	// field-level parse problems. Nil keeps the table as is.
	Stage func(Table) (Table, []error)
	// Enrich appends the page's issued date and time to every processed row.
	Enrich bool
}

// ReportMetadata describes a rendered report.
type ReportMetadata struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Page        string `json:"page"`
	GeneratedAt string `json:"generated_at"` // ISO8601
}

// NewReportMetadata stamps metadata with the given generation time.
func NewReportMetadata(title, source, page string, at time.Time) ReportMetadata {
	return ReportMetadata{
		Title:       title,
		Source:      source,
		Page:        page,
		GeneratedAt: at.UTC().Format(time.RFC3339),
	}
}

// Package core — error taxonomy shared across stages.
package core

import "fmt"

// FetchError reports a page that could not be retrieved. Callers turn it
// into an absent *Document rather than aborting the run.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StructureMismatchError means the page markup no longer matches the layout
// the extractor understands. It is fatal for the page being processed.
type StructureMismatchError struct {
	Page   string
	Marker string
	Want   string
	Got    int
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("%s: structure mismatch: expected %s %q, found %d", e.Page, e.Want, e.Marker, e.Got)
}

// RowShapeError describes a table row with fewer cells than its topic needs.
// The row is skipped and extraction continues.
type RowShapeError struct {
	Topic string
	Row   int
	Got   int
	Want  int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("%s: row %d has %d cells, want %d; skipped", e.Topic, e.Row, e.Got, e.Want)
}

// ParseValueError reports a field value that does not match its grammar.
// The field is emptied and the record kept.
type ParseValueError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parsing %s %q", e.Field, e.Value)
}

func (e *ParseValueError) Unwrap() error { return e.Err }

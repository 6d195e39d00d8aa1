// Package core — parsed page handle.
package core

import "github.com/PuerkitoBio/goquery"

// Document is a fetched and parsed HTML page. A nil *Document is the
// absence value for a page that could not be fetched.
type Document struct {
	URL string
	Doc *goquery.Document
}

// Present reports whether the document holds a parsed page. It is safe to
// call on a nil receiver.
func (d *Document) Present() bool {
	return d != nil && d.Doc != nil
}

// Find runs a selector over the whole page. An absent document yields an
// empty selection.
func (d *Document) Find(selector string) *goquery.Selection {
	if !d.Present() {
		return &goquery.Selection{}
	}
	return d.Doc.Find(selector)
}

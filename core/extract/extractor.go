// Package extract implements the Extractor interface for every PAGASA page.
// This file handles free-text pages such as the weather advisory. It isolates
// the main content by:
//  1. Finding the best content container (article body, <main>, <article>, or <body>)
//  2. Removing noise elements (nav, footer, scripts, images, etc.)
//
// and converts what is left to Markdown.
package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// TopicWeatherAdvisory is the single raw topic of the advisory page.
const TopicWeatherAdvisory = "weather_advisory"

// AdvisoryColumns is the column order of the weather_advisory topic.
var AdvisoryColumns = []string{"title", "content"}

// noiseSelectors are HTML elements removed before extraction.
// These contribute no meaningful content to the advisory text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// containerSelectors are tried in order; the first match is the content.
var containerSelectors = []string{"div.article-content", "main", "article", "body"}

// AdvisoryExtractor strips noise from the advisory page and returns its
// title and Markdown body.
type AdvisoryExtractor struct {
	normalizer *normalize.MarkdownNormalizer
}

// NewAdvisory creates an AdvisoryExtractor.
func NewAdvisory() *AdvisoryExtractor {
	return &AdvisoryExtractor{normalizer: normalize.New()}
}

// Extract returns the advisory as a single record. An absent page yields
// an empty record.
func (e *AdvisoryExtractor) Extract(doc *core.Document) (*core.Extraction, error) {
	var title, content string
	if doc.Present() {
		fragment, err := MainContent(doc)
		if err != nil {
			return nil, err
		}
		title = normalize.CollapseSpaces(fragment.Find("h1, h2, h3, h4").First().Text())

		html, err := goquery.OuterHtml(fragment)
		if err != nil {
			return nil, fmt.Errorf("serializing content: %w", err)
		}
		content, err = e.normalizer.Normalize(html)
		if err != nil {
			return nil, err
		}
	}

	return &core.Extraction{
		Datasets: []core.Dataset{
			{Topic: TopicWeatherAdvisory, Table: core.NewRecord(AdvisoryColumns, []string{title, content})},
		},
	}, nil
}

// MainContent returns a cleaned copy of the page's content container. The
// document itself is left untouched.
func MainContent(doc *core.Document) (*goquery.Selection, error) {
	root := doc.Doc.Selection.Clone()

	// Remove noise elements first (operates on the whole copy).
	for _, sel := range noiseSelectors {
		root.Find(sel).Remove()
	}

	for _, sel := range containerSelectors {
		if found := root.Find(sel); found.Length() > 0 {
			return found.First(), nil
		}
	}
	return nil, &core.StructureMismatchError{Page: doc.URL, Marker: "main content container", Want: "1", Got: 0}
}

// Package extract — tropical cyclone associated rainfall page.
package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// TopicAssociatedRainfall is the single raw topic of the rainfall page.
const TopicAssociatedRainfall = "tropical_cyclone_associated_rainfall"

// RainfallColumns is the column order of the associated rainfall topic.
var RainfallColumns = []string{"tropical_cyclone", "image_url"}

const rainfallSelect = "div.row.climate-page div.article-content div.panel div.form-group select.tc_select"

// RainfallExtractor implements core.Extractor for the associated rainfall page.
type RainfallExtractor struct{}

// NewRainfall creates a RainfallExtractor.
func NewRainfall() *RainfallExtractor {
	return &RainfallExtractor{}
}

// Extract lists the season's rainfall maps from the cyclone selector. The
// first option is a placeholder prompt. A page without the panel has no maps
// published yet.
func (e *RainfallExtractor) Extract(doc *core.Document) (*core.Extraction, error) {
	maps := core.NewTable(RainfallColumns...)

	if doc.Present() && doc.Find("div.row.climate-page").Length() == 0 {
		return nil, &core.StructureMismatchError{Page: doc.URL, Marker: "div.row.climate-page", Want: "1", Got: 0}
	}

	doc.Find(rainfallSelect).First().Find("option").Each(func(i int, opt *goquery.Selection) {
		if i == 0 {
			return
		}
		src, _ := opt.Attr("value")
		maps.Append(normalize.CollapseSpaces(opt.Text()), normalize.CollapseSpaces(src))
	})

	return &core.Extraction{
		Datasets: []core.Dataset{{Topic: TopicAssociatedRainfall, Table: maps}},
	}, nil
}

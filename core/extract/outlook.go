// Package extract — weather outlook pages (cities and tourist areas).
// Both pages share one layout: an issue banner with the issued time and
// valid period, and a desktop table of areas by date with min/max spans.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// Raw topics of the outlook pages.
const (
	TopicValidPeriod    = "valid_period"
	TopicWeatherOutlook = "weather_outlook"
)

// Outlook columns.
const (
	ColValidPeriod        = "valid_period"
	ColArea               = "area"
	ColWeatherDate        = "weather_date"
	ColMinimumTemperature = "minimum_temperature"
	ColMaximumTemperature = "maximum_temperature"
)

// OutlookColumns is the column order of the weather_outlook topic.
var OutlookColumns = []string{ColArea, ColWeatherDate, ColMinimumTemperature, ColMaximumTemperature}

const outlookContainer = "div.row.weather-page"

// OutlookExtractor implements core.Extractor for the outlook pages.
type OutlookExtractor struct{}

// NewOutlook creates an OutlookExtractor.
func NewOutlook() *OutlookExtractor {
	return &OutlookExtractor{}
}

// Extract returns the issued datetime, the valid period and one outlook row
// per area and date.
func (e *OutlookExtractor) Extract(doc *core.Document) (*core.Extraction, error) {
	issued, valid := "", ""
	outlook := core.NewTable(OutlookColumns...)
	var warns []error

	if doc.Present() {
		page := doc.Find(outlookContainer)
		if page.Length() == 0 {
			return nil, &core.StructureMismatchError{Page: doc.URL, Marker: outlookContainer, Want: "1", Got: 0}
		}

		bold := page.Find("div.col-md-12.col-lg-12.issue div.validity b")
		issued = normalize.CollapseSpaces(bold.Eq(0).Text())
		valid = normalize.CollapseSpaces(bold.Eq(1).Text())

		table := page.Find("table.table.desktop").First()
		var dates []string
		table.Find("thead th").Each(func(i int, th *goquery.Selection) {
			if i > 0 {
				dates = append(dates, normalize.CollapseSpaces(th.Text()))
			}
		})

		table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}
			if cells.Length() < len(dates)+1 {
				warns = append(warns, &core.RowShapeError{Topic: TopicWeatherOutlook, Row: i, Got: cells.Length(), Want: len(dates) + 1})
				return
			}
			area := strings.ReplaceAll(normalize.CollapseSpaces(cells.Eq(0).Text()), "( ", "(")
			for d, date := range dates {
				cell := cells.Eq(d + 1)
				outlook.Append(area, date,
					normalize.CollapseSpaces(cell.Find("span.min").Text()),
					normalize.CollapseSpaces(cell.Find("span.max").Text()))
			}
		})
	}

	return &core.Extraction{
		Datasets: []core.Dataset{
			{Topic: TopicIssuedDateTime, Table: core.NewRecord([]string{core.ColIssuedDateTime}, []string{issued})},
			{Topic: TopicValidPeriod, Table: core.NewRecord([]string{ColValidPeriod}, []string{valid})},
			{Topic: TopicWeatherOutlook, Table: outlook},
		},
		Warnings: warns,
	}, nil
}

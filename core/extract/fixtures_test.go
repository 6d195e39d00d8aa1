package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

func parseDoc(t *testing.T, src string) *core.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return &core.Document{URL: "fixture", Doc: doc}
}

type forecastFixture struct {
	issued     string
	cyclone    bool
	update     string
	conditions [][]string
	winds      [][]string
	tempRows   [][]string
	noTables   bool
}

func defaultForecast() forecastFixture {
	return forecastFixture{
		issued: "Issued at: 3:00 PM, Jan 15, 2024",
		conditions: [][]string{
			{"Metro Manila and Rizal", "Cloudy", "Monsoon", "Minor flooding"},
		},
		winds: [][]string{
			{"Luzon", "Moderate to Strong", "Northeast", "Moderate to rough (1.5 to 3.0 m)"},
		},
		tempRows: [][]string{
			{"Temperature", "32 °C", "2:00 PM", "24 °C", "6:00 AM"},
			{"Relative Humidity", "95 %", "6:00 AM", "60 %", "2:00 PM"},
		},
	}
}

func tableHTML(rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table><thead><tr><th>Place</th><th>A</th><th>B</th><th>C</th></tr></thead><tbody>")
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, c := range r {
			fmt.Fprintf(&b, "<td>\n  %s\n</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func (f forecastFixture) html() string {
	table := func(rows [][]string) string {
		if f.noTables {
			return "<p>No data.</p>"
		}
		return tableHTML(rows)
	}

	var b strings.Builder
	b.WriteString(`<html><body><div class="container">`)
	fmt.Fprintf(&b, `<div class="col-md-12 col-lg-12 issue"><b>%s</b></div>`, f.issued)
	b.WriteString(`<div class="col-md-12 col-lg-12"><h3>Synopsis</h3><p>  Northeast monsoon affecting Luzon.  </p></div>`)
	if f.cyclone {
		update := f.update
		if update == "" {
			update = "Amang has slightly intensified."
		}
		b.WriteString(`<div class="col-md-12 col-lg-12"><h3>Tropical Storm "Amang"</h3>` +
			`<p>` + update + `</p>` +
			`<table><tbody>` +
			`<tr><th>Location of Center</th><td>150 km East of Virac</td></tr>` +
			`<tr><th>Maximum Sustained Winds</th><td>65 km/h</td></tr>` +
			`<tr><th>Gustiness</th><td>up to 80 km/h</td></tr>` +
			`<tr><th>Movement</th><td>West slowly</td></tr>` +
			`</tbody></table></div>`)
	}
	fmt.Fprintf(&b, `<div class="col-md-12 col-lg-12"><h3>Forecast Weather Conditions</h3>%s</div>`, table(f.conditions))
	fmt.Fprintf(&b, `<div class="col-md-12 col-lg-12"><h3>Forecast Wind and Coastal Water Conditions</h3>%s</div>`, table(f.winds))
	fmt.Fprintf(&b, `<div class="col-md-12 col-lg-12"><h3>Temperature and Relative Humidity</h3>%s</div>`, table(f.tempRows))
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// Package extract — tropical cyclone bulletin page.
package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// Raw topics of the tropical cyclone bulletin page.
const (
	TopicCycloneBulletin     = "tropical_cyclone_bulletin"
	TopicCycloneDescriptions = "tropical_cyclone_descriptions"
)

// BulletinColumns is the column order of the tropical_cyclone_bulletin topic.
var BulletinColumns = []string{"name", "time_validity", "summary", "track_map_url"}

const (
	bulletinContainer = "div.row.tropical-cyclone-weather-bulletin-page"
	bulletinPane      = `div[role="tabpanel"].tab-pane.active`
)

// BulletinExtractor implements core.Extractor for the tropical cyclone bulletin page.
type BulletinExtractor struct{}

// NewBulletin creates a BulletinExtractor.
func NewBulletin() *BulletinExtractor {
	return &BulletinExtractor{}
}

// Extract reads the active bulletin tab. A page without the bulletin
// container has no cyclone in effect and yields empty topics; a container
// without an active tab is a structure mismatch.
func (e *BulletinExtractor) Extract(doc *core.Document) (*core.Extraction, error) {
	var issued, name, validity, summary, trackMap string
	descriptions := core.NewTable("description")

	if page := doc.Find(bulletinContainer); page.Length() > 0 {
		content := page.Find("div.col-md-12.article-content").First()

		tabs := content.Find("ul.nav.nav-tabs").First()
		tab := tabs.Find("li.active").First()
		if tab.Length() == 0 {
			tab = tabs.Find("li").First()
		}
		name = normalize.CollapseSpaces(tab.Text())

		pane := content.Find(bulletinPane).First()
		if pane.Length() == 0 {
			return nil, &core.StructureMismatchError{Page: doc.URL, Marker: bulletinPane, Want: "1", Got: 0}
		}
		rows := pane.ChildrenFiltered("div.row")

		header := rows.Eq(1).Find("h5")
		issued = normalize.CollapseSpaces(header.Eq(0).Text())
		validity = normalize.CollapseSpaces(header.Eq(1).Text())

		body := rows.Eq(2)
		summary = normalize.CollapseSpaces(body.Find("h5").First().Text())
		body.Find("ul li").Each(func(_ int, li *goquery.Selection) {
			if text := normalize.CollapseSpaces(li.Text()); text != "" {
				descriptions.Append(text)
			}
		})
		trackMap, _ = body.Find("img").First().Attr("src")
	}

	return &core.Extraction{
		Datasets: []core.Dataset{
			{Topic: TopicIssuedDateTime, Table: core.NewRecord([]string{core.ColIssuedDateTime}, []string{issued})},
			{Topic: TopicCycloneBulletin, Table: core.NewRecord(BulletinColumns, []string{name, validity, summary, trackMap})},
			{Topic: TopicCycloneDescriptions, Table: descriptions},
		},
	}, nil
}

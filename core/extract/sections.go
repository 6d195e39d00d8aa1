// Package extract — section locator for the daily weather forecast page.
// The page gives every section the same container, so sections are told
// apart only by how many of them there are.
package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// Section names one content block of the forecast page.
type Section int

const (
	SectionSynopsis Section = iota
	SectionCyclone
	SectionConditions
	SectionWinds
	SectionTemperature
)

var sectionNames = map[Section]string{
	SectionSynopsis:    "synopsis",
	SectionCyclone:     "tropical cyclone",
	SectionConditions:  "forecast weather conditions",
	SectionWinds:       "wind and coastal water conditions",
	SectionTemperature: "temperature and relative humidity",
}

func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

// blockMarker matches the exact class string shared by the forecast sections.
// The issue-time banner carries an extra class and is not counted.
const blockMarker = `div[class="col-md-12 col-lg-12"]`

var blockSelector = cascadia.MustCompile(blockMarker)

// layouts maps a block count to the position of every section present.
// This is the only place block positions are known.
var layouts = map[int]map[Section]int{
	5: {
		SectionSynopsis:    0,
		SectionCyclone:     1,
		SectionConditions:  2,
		SectionWinds:       3,
		SectionTemperature: 4,
	},
	4: {
		SectionSynopsis:    0,
		SectionConditions:  1,
		SectionWinds:       2,
		SectionTemperature: 3,
	},
}

// SectionMap resolves named sections to blocks of one page.
type SectionMap struct {
	blocks *goquery.Selection
	index  map[Section]int
}

// LocateSections finds the forecast section blocks and builds the named
// mapping for them. Any block count other than 4 or 5 is a
// *core.StructureMismatchError.
func LocateSections(doc *core.Document) (SectionMap, error) {
	if !doc.Present() {
		return SectionMap{}, &core.StructureMismatchError{Page: "forecast", Marker: blockMarker, Want: "4 or 5", Got: 0}
	}
	blocks := doc.Doc.FindMatcher(blockSelector)
	layout, ok := layouts[blocks.Length()]
	if !ok {
		return SectionMap{}, &core.StructureMismatchError{Page: doc.URL, Marker: blockMarker, Want: "4 or 5", Got: blocks.Length()}
	}
	return SectionMap{blocks: blocks, index: layout}, nil
}

// Section returns the block for s, if the page has one.
func (m SectionMap) Section(s Section) (*goquery.Selection, bool) {
	i, ok := m.index[s]
	if !ok {
		return nil, false
	}
	return m.blocks.Eq(i), true
}

// Index returns the block position of s.
func (m SectionMap) Index(s Section) (int, bool) {
	i, ok := m.index[s]
	return i, ok
}

// HasCyclone reports whether the page carries a tropical cyclone section.
func (m SectionMap) HasCyclone() bool {
	_, ok := m.index[SectionCyclone]
	return ok
}

// Count returns the number of located blocks.
func (m SectionMap) Count() int {
	if m.blocks == nil {
		return 0
	}
	return m.blocks.Length()
}

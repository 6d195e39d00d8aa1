// Package extract — record extractors for the daily weather forecast page.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// Raw topics of the daily weather forecast page.
const (
	TopicIssuedDateTime      = "issued_datetime"
	TopicSynopsis            = "synopsis"
	TopicCycloneInformation  = "tropical_cyclone_information"
	TopicForecastConditions  = "forecast_weather_conditions"
	TopicWindConditions      = "forecast_wind_and_coastal_water_conditions"
	TopicTemperatureHumidity = "temperature_and_relative_humidity"
)

var issueSelector = cascadia.MustCompile(`div[class="col-md-12 col-lg-12 issue"]`)

// ForecastExtractor implements core.Extractor for the daily weather forecast page.
type ForecastExtractor struct{}

// NewForecast creates a ForecastExtractor.
func NewForecast() *ForecastExtractor {
	return &ForecastExtractor{}
}

// Extract decodes the page into its six raw topics.
func (e *ForecastExtractor) Extract(doc *core.Document) (*core.Extraction, error) {
	f, err := ExtractForecast(doc)
	if err != nil {
		return nil, err
	}
	return &core.Extraction{
		Datasets: []core.Dataset{
			{Topic: TopicIssuedDateTime, Table: core.NewRecord([]string{core.ColIssuedDateTime}, []string{f.IssuedDateTime})},
			{Topic: TopicSynopsis, Table: core.NewRecord([]string{core.ColSynopsis}, []string{string(f.Synopsis)})},
			{Topic: TopicCycloneInformation, Table: f.Cyclone.Table()},
			{Topic: TopicForecastConditions, Table: core.ForecastConditionsTable(f.Conditions)},
			{Topic: TopicWindConditions, Table: core.WindConditionsTable(f.Winds)},
			{Topic: TopicTemperatureHumidity, Table: f.TemperatureHumidity.Table()},
		},
		Warnings: f.Warnings,
	}, nil
}

// ExtractForecast reads every forecast topic from a parsed page. An absent
// page yields core.EmptyForecast().
func ExtractForecast(doc *core.Document) (core.Forecast, error) {
	f := core.EmptyForecast()
	if !doc.Present() {
		return f, nil
	}

	sections, err := LocateSections(doc)
	if err != nil {
		return f, err
	}

	f.IssuedDateTime = normalize.CollapseSpaces(doc.Doc.FindMatcher(issueSelector).First().Text())

	if sel, ok := sections.Section(SectionSynopsis); ok {
		f.Synopsis = core.Synopsis(normalize.CollapseSpaces(sel.Find("p").First().Text()))
	}

	if sel, ok := sections.Section(SectionCyclone); ok {
		f.Cyclone = extractCyclone(sel)
	}

	if sel, ok := sections.Section(SectionConditions); ok {
		rows, warns := tableRows(sel, TopicForecastConditions, len(core.ForecastConditionColumns))
		for _, r := range rows {
			f.Conditions = append(f.Conditions, core.ForecastConditionRow{
				Place:            r[0],
				WeatherCondition: r[1],
				CausedBy:         r[2],
				Impact:           r[3],
			})
		}
		f.Warnings = append(f.Warnings, warns...)
	}

	if sel, ok := sections.Section(SectionWinds); ok {
		rows, warns := tableRows(sel, TopicWindConditions, len(core.WindConditionColumns))
		for _, r := range rows {
			f.Winds = append(f.Winds, core.WindConditionRow{
				Place:        r[0],
				Speed:        r[1],
				Direction:    r[2],
				CoastalWater: r[3],
			})
		}
		f.Warnings = append(f.Warnings, warns...)
	}

	if sel, ok := sections.Section(SectionTemperature); ok {
		th, warns := extractTemperatureHumidity(sel)
		f.TemperatureHumidity = th
		f.Warnings = append(f.Warnings, warns...)
	}

	return f, nil
}

// tableRows reads the section's table body by position. Rows shorter than
// want are skipped with a *core.RowShapeError; extra cells are ignored. Rows
// without data cells (header rows) are skipped silently. A missing table is
// an empty result.
func tableRows(section *goquery.Selection, topic string, want int) ([][]string, []error) {
	body := section.Find("tbody").First()
	if body.Length() == 0 {
		return nil, nil
	}

	var rows [][]string
	var warns []error
	body.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr.Find("td"))
		if len(cells) == 0 {
			return
		}
		if len(cells) < want {
			warns = append(warns, &core.RowShapeError{Topic: topic, Row: i, Got: len(cells), Want: want})
			return
		}
		rows = append(rows, cells[:want])
	})
	return rows, warns
}

// extractTemperatureHumidity reads the first two rows of the table: row one
// is temperature, row two is relative humidity. Each row starts with a label
// cell followed by max value, max time, min value, min time.
func extractTemperatureHumidity(section *goquery.Selection) (core.TemperatureHumidity, []error) {
	var th core.TemperatureHumidity
	const want = 5

	body := section.Find("tbody").First()
	if body.Length() == 0 {
		return th, nil
	}

	var warns []error
	readings := func(i int) (core.Reading, core.Reading, bool) {
		tr := body.Find("tr").Eq(i)
		if tr.Length() == 0 {
			return core.Reading{}, core.Reading{}, false
		}
		cells := cellTexts(tr.Find("td"))
		if len(cells) < want {
			warns = append(warns, &core.RowShapeError{Topic: TopicTemperatureHumidity, Row: i, Got: len(cells), Want: want})
			return core.Reading{}, core.Reading{}, false
		}
		data := cells[1:want]
		return core.Reading{Value: data[0], Time: data[1]}, core.Reading{Value: data[2], Time: data[3]}, true
	}

	if hi, lo, ok := readings(0); ok {
		th.MaxTemperature, th.MinTemperature = hi, lo
	}
	if hi, lo, ok := readings(1); ok {
		th.MaxRelativeHumidity, th.MinRelativeHumidity = hi, lo
	}
	return th, warns
}

// extractCyclone reads the tropical cyclone block: a heading naming the
// cyclone, an update paragraph and label/value details either as table rows
// or as "Label: value" lines.
func extractCyclone(section *goquery.Selection) core.TropicalCycloneInfo {
	var info core.TropicalCycloneInfo

	section.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr.Find("th, td"))
		if len(cells) >= 2 {
			assignCycloneField(&info, cells[0], cells[len(cells)-1])
		}
	})

	section.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := normalize.CollapseSpaces(s.Text())
		if label, value, found := strings.Cut(text, ":"); found && assignCycloneField(&info, label, value) {
			return
		}
		// Anything else, such as "At 4:00 AM today, ...", is the update text.
		if info.CurrentUpdate == "" && goquery.NodeName(s) == "p" {
			info.CurrentUpdate = text
		}
	})

	if info.Name == "" {
		info.Name = normalize.CollapseSpaces(section.Find("h1, h2, h3, h4, h5, h6, strong").First().Text())
	}
	return info
}

// maxLabelLen bounds a "Label: value" label; longer prefixes are prose.
const maxLabelLen = 40

// assignCycloneField stores value under the field named by label and
// reports whether label named a field.
func assignCycloneField(info *core.TropicalCycloneInfo, label, value string) bool {
	if len(label) > maxLabelLen {
		return false
	}
	value = normalize.CollapseSpaces(value)
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "location"):
		info.Location = value
	case strings.Contains(l, "sustained"):
		info.MaxSustainedWinds = value
	case strings.Contains(l, "gust"):
		info.Gustiness = value
	case strings.Contains(l, "movement"):
		info.Movement = value
	case strings.Contains(l, "name"):
		info.Name = value
	case strings.Contains(l, "update"):
		info.CurrentUpdate = value
	default:
		return false
	}
	return true
}

func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, td *goquery.Selection) {
		out = append(out, normalize.CollapseSpaces(td.Text()))
	})
	return out
}

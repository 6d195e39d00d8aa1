// Package core — typed forecast records and their tabular form.
package core

// Column names shared by raw, stage and processed tiers.
const (
	ColIssuedDateTime = "issued_datetime"
	ColIssuedDate     = "issued_date"
	ColIssuedTime     = "issued_time"
	ColSynopsis       = "synopsis"
	ColPlace          = "place"
)

// IssuedDateTime is the normalized publication timestamp of a page.
type IssuedDateTime struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM:SS
}

// Synopsis is the free-text weather situation paragraph.
type Synopsis string

// TropicalCycloneInfo is present only when the forecast page carries a cyclone
// section. An absent cyclone keeps every field empty so the schema stays stable.
type TropicalCycloneInfo struct {
	CurrentUpdate     string
	Name              string
	Location          string
	MaxSustainedWinds string
	Gustiness         string
	Movement          string
}

// CycloneColumns is the fixed column order of TropicalCycloneInfo.
var CycloneColumns = []string{"current_update", "name", "location", "max_sustained_winds", "gustiness", "movement"}

// Empty reports whether no cyclone field was populated.
func (c TropicalCycloneInfo) Empty() bool {
	return c == TropicalCycloneInfo{}
}

// Table returns the record as a single-row table.
func (c TropicalCycloneInfo) Table() Table {
	return NewRecord(CycloneColumns, []string{c.CurrentUpdate, c.Name, c.Location, c.MaxSustainedWinds, c.Gustiness, c.Movement})
}

// ForecastConditionRow is one row of the forecast weather conditions table.
// Place may list several locations until it is exploded at the stage tier.
type ForecastConditionRow struct {
	Place            string
	WeatherCondition string
	CausedBy         string
	Impact           string
}

// ForecastConditionColumns is the fixed column order of ForecastConditionRow.
var ForecastConditionColumns = []string{ColPlace, "weather_condition", "caused_by", "impact"}

// ForecastConditionsTable converts rows to a table.
func ForecastConditionsTable(rows []ForecastConditionRow) Table {
	t := NewTable(ForecastConditionColumns...)
	for _, r := range rows {
		t.Append(r.Place, r.WeatherCondition, r.CausedBy, r.Impact)
	}
	return t
}

// WindConditionRow is one row of the wind and coastal water conditions table.
type WindConditionRow struct {
	Place        string
	Speed        string
	Direction    string
	CoastalWater string
}

// WindConditionColumns is the fixed column order of WindConditionRow.
var WindConditionColumns = []string{ColPlace, "speed", "direction", "coastal_water"}

// WindConditionsTable converts rows to a table.
func WindConditionsTable(rows []WindConditionRow) Table {
	t := NewTable(WindConditionColumns...)
	for _, r := range rows {
		t.Append(r.Place, r.Speed, r.Direction, r.CoastalWater)
	}
	return t
}

// Reading is a measured value and the time it was observed.
type Reading struct {
	Value string
	Time  string
}

// TemperatureHumidity holds the daily extremes of temperature and relative humidity.
type TemperatureHumidity struct {
	MaxTemperature      Reading
	MinTemperature      Reading
	MaxRelativeHumidity Reading
	MinRelativeHumidity Reading
}

// TemperatureHumidityColumns is the fixed column order of TemperatureHumidity.
var TemperatureHumidityColumns = []string{
	"max_temperature", "time_of_max_temperature",
	"min_temperature", "time_of_min_temperature",
	"max_relative_humidity", "time_of_max_relative_humidity",
	"min_relative_humidity", "time_of_min_relative_humidity",
}

// Table returns the record as a single-row table.
func (th TemperatureHumidity) Table() Table {
	return NewRecord(TemperatureHumidityColumns, []string{
		th.MaxTemperature.Value, th.MaxTemperature.Time,
		th.MinTemperature.Value, th.MinTemperature.Time,
		th.MaxRelativeHumidity.Value, th.MaxRelativeHumidity.Time,
		th.MinRelativeHumidity.Value, th.MinRelativeHumidity.Time,
	})
}

// Forecast is everything extracted from one daily weather forecast page.
type Forecast struct {
	IssuedDateTime      string
	Synopsis            Synopsis
	Cyclone             TropicalCycloneInfo
	Conditions          []ForecastConditionRow
	Winds               []WindConditionRow
	TemperatureHumidity TemperatureHumidity
	Warnings            []error
}

// EmptyForecast is the forecast of an absent page: empty fields and empty row sets.
func EmptyForecast() Forecast {
	return Forecast{
		Conditions: []ForecastConditionRow{},
		Winds:      []WindConditionRow{},
	}
}

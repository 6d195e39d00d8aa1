// Package pages registers every PAGASA page the pipeline knows how to scrape,
// with the stage transform and enrichment rule of each topic.
package pages

import (
	"fmt"
	"slices"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/extract"
	"github.com/gaurav-prasanna/pagasapipe/core/transform"
)

// Page names, also used as tier directory names.
const (
	DailyWeatherForecast      = "daily_weather_forecast"
	OutlookPhilippineCities   = "weather_outlook_for_ph_cities"
	OutlookTouristAreas       = "weather_outlook_for_ph_tourist_areas"
	TropicalCycloneBulletin   = "tropical_cyclone_bulletin"
	WeatherAdvisory           = "weather_advisory"
	CycloneAssociatedRainfall = "tropical_cyclone_associated_rainfall"
)

// DefaultURLs are the public PAGASA addresses of each page.
var DefaultURLs = map[string]string{
	DailyWeatherForecast:      "https://www.pagasa.dost.gov.ph/weather#daily-weather-forecast",
	OutlookPhilippineCities:   "https://www.pagasa.dost.gov.ph/weather/weather-outlook-selected-philippine-cities",
	OutlookTouristAreas:       "https://www.pagasa.dost.gov.ph/weather/weather-outlook-selected-tourist-areas",
	TropicalCycloneBulletin:   "https://www.pagasa.dost.gov.ph/tropical-cyclone/severe-weather-bulletin",
	WeatherAdvisory:           "https://www.pagasa.dost.gov.ph/weather/weather-advisory",
	CycloneAssociatedRainfall: "https://www.pagasa.dost.gov.ph/climate/tropical-cyclone-associated-rainfall",
}

// Names lists every page in run order.
var Names = []string{
	DailyWeatherForecast,
	OutlookPhilippineCities,
	OutlookTouristAreas,
	TropicalCycloneBulletin,
	WeatherAdvisory,
	CycloneAssociatedRainfall,
}

var issuedTopic = core.Topic{Name: extract.TopicIssuedDateTime, Stage: transform.IssuedDateTime}

// New builds the page definition for name. urls overrides DefaultURLs.
func New(name string, urls map[string]string) (core.Page, error) {
	url := urls[name]
	if url == "" {
		url = DefaultURLs[name]
	}

	switch name {
	case DailyWeatherForecast:
		return core.Page{
			Name:        name,
			URL:         url,
			Extractor:   extract.NewForecast(),
			IssuedTopic: extract.TopicIssuedDateTime,
			Topics: []core.Topic{
				issuedTopic,
				{Name: extract.TopicSynopsis, Enrich: true},
				{Name: extract.TopicCycloneInformation, Enrich: true},
				{Name: extract.TopicForecastConditions, Stage: transform.ExplodePlaces, Enrich: true},
				{Name: extract.TopicWindConditions, Stage: transform.WindCategories, Enrich: true},
				{Name: extract.TopicTemperatureHumidity, Stage: transform.Times24Hour, Enrich: true},
			},
		}, nil

	case OutlookPhilippineCities, OutlookTouristAreas:
		return core.Page{
			Name:        name,
			URL:         url,
			Extractor:   extract.NewOutlook(),
			IssuedTopic: extract.TopicIssuedDateTime,
			Topics: []core.Topic{
				issuedTopic,
				{Name: extract.TopicValidPeriod, Enrich: true},
				{Name: extract.TopicWeatherOutlook, Enrich: true},
			},
		}, nil

	case TropicalCycloneBulletin:
		return core.Page{
			Name:        name,
			URL:         url,
			Extractor:   extract.NewBulletin(),
			IssuedTopic: extract.TopicIssuedDateTime,
			Topics: []core.Topic{
				issuedTopic,
				{Name: extract.TopicCycloneBulletin, Enrich: true},
				{Name: extract.TopicCycloneDescriptions, Enrich: true},
			},
		}, nil

	case WeatherAdvisory:
		return core.Page{
			Name:      name,
			URL:       url,
			Extractor: extract.NewAdvisory(),
			Topics:    []core.Topic{{Name: extract.TopicWeatherAdvisory}},
		}, nil

	case CycloneAssociatedRainfall:
		return core.Page{
			Name:      name,
			URL:       url,
			Extractor: extract.NewRainfall(),
			Topics:    []core.Topic{{Name: extract.TopicAssociatedRainfall}},
		}, nil
	}

	return core.Page{}, fmt.Errorf("unknown page %q (known: %v)", name, Names)
}

// All builds every registered page.
func All(urls map[string]string) ([]core.Page, error) {
	out := make([]core.Page, 0, len(Names))
	for _, name := range Names {
		p, err := New(name, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Known reports whether name is a registered page.
func Known(name string) bool {
	return slices.Contains(Names, name)
}

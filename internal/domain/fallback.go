package domain

import "time"

// Static fallback records, returned by the aggregation layer when every
// source has failed and no cached value survives. Payloads describe typical
// trade-wind conditions rather than claiming to be observations: SourceName
// "fallback" lets the presentation layer caveat them.

const fallbackSource = "fallback"

// FallbackWeather returns the static default weather record for an island.
func FallbackWeather(island Island) []Record[WeatherSnapshot] {
	return []Record[WeatherSnapshot]{{
		IdentityKey: WeatherIdentity(island, time.Time{}),
		SourceName:  fallbackSource,
		Payload: WeatherSnapshot{
			Island:        island,
			TemperatureC:  27,
			Humidity:      DefaultHumidity,
			WindSpeedKPH:  20,
			WindDirection: DefaultWindDirection,
			Condition:     "Partly Cloudy",
		},
	}}
}

// FallbackSurf returns static typical readings for an island's breaks.
func FallbackSurf(island Island) []Record[SurfReading] {
	spots := SpotsFor(island)
	records := make([]Record[SurfReading], 0, len(spots))
	for _, spot := range spots {
		records = append(records, Record[SurfReading]{
			IdentityKey: SurfIdentity(spot.Name, time.Time{}),
			SourceName:  fallbackSource,
			Payload: SurfReading{
				Spot:           spot.Name,
				Island:         island,
				Shore:          spot.Shore,
				FaceMinFt:      2,
				FaceMaxFt:      4,
				SwellPeriodS:   10,
				SwellDirection: DefaultWindDirection,
				Quality:        SurfQuality(3, 10),
			},
		})
	}
	return records
}

// FallbackNews returns no articles: an empty news widget with a degraded
// marker beats a fabricated headline.
func FallbackNews(Island) []Record[NewsArticle] {
	return nil
}

// FallbackEvents returns no listings, for the same reason as news.
func FallbackEvents(Island) []Record[EventListing] {
	return nil
}

// FallbackOutages reports no known outages.
func FallbackOutages(Island) []Record[OutageNotice] {
	return nil
}

package domain

import "time"

// Spot is a monitored surf break.
type Spot struct {
	Name   string
	Island Island
	Shore  string // "north", "south", "east", "west"
	Coords Coordinates
}

// The monitored break list is static: these are the spots the dashboard's
// surf widget displays, chosen per island for shore coverage.
var surfSpots = []Spot{
	{Name: "Waikiki", Island: Oahu, Shore: "south", Coords: Coordinates{Lat: 21.2724, Lon: -157.8241}},
	{Name: "Pipeline", Island: Oahu, Shore: "north", Coords: Coordinates{Lat: 21.6654, Lon: -158.0521}},
	{Name: "Sunset Beach", Island: Oahu, Shore: "north", Coords: Coordinates{Lat: 21.6747, Lon: -158.0408}},
	{Name: "Makaha", Island: Oahu, Shore: "west", Coords: Coordinates{Lat: 21.4794, Lon: -158.2208}},
	{Name: "Honolua Bay", Island: Maui, Shore: "north", Coords: Coordinates{Lat: 21.0147, Lon: -156.6413}},
	{Name: "Lahaina Harbor", Island: Maui, Shore: "west", Coords: Coordinates{Lat: 20.8700, Lon: -156.6786}},
	{Name: "Hanalei Bay", Island: Kauai, Shore: "north", Coords: Coordinates{Lat: 22.2037, Lon: -159.5022}},
	{Name: "Poipu", Island: Kauai, Shore: "south", Coords: Coordinates{Lat: 21.8745, Lon: -159.4520}},
	{Name: "Honolii", Island: BigIsland, Shore: "east", Coords: Coordinates{Lat: 19.7583, Lon: -155.0906}},
	{Name: "Banyans", Island: BigIsland, Shore: "west", Coords: Coordinates{Lat: 19.6147, Lon: -155.9806}},
}

// SpotsFor returns the monitored breaks on an island, in table order.
func SpotsFor(island Island) []Spot {
	var spots []Spot
	for _, s := range surfSpots {
		if s.Island == island {
			spots = append(spots, s)
		}
	}
	return spots
}

// SurfReading is the normalized swell observation for one break.
type SurfReading struct {
	Spot           string    `json:"spot"`
	Island         Island    `json:"island"`
	Shore          string    `json:"shore"`
	FaceMinFt      float64   `json:"face_min_ft"`
	FaceMaxFt      float64   `json:"face_max_ft"`
	SwellPeriodS   float64   `json:"swell_period_s"`
	SwellDirection string    `json:"swell_direction"`
	Quality        string    `json:"quality"`
	ObservedAt     time.Time `json:"observed_at"`
}

// SurfIdentity keys a reading by spot and UTC hour.
func SurfIdentity(spot string, observedAt time.Time) string {
	return IdentityHash("surf", spot, hourBucket(observedAt))
}

// SurfQuality derives the quality label from face height and swell period.
// Thresholds documented in the package comment.
func SurfQuality(faceFt, periodS float64) string {
	switch {
	case faceFt < 1:
		return "flat"
	case periodS < 8:
		return "poor"
	case faceFt < 4:
		return "fair"
	case faceFt < 8 || periodS < 12:
		return "good"
	default:
		return "epic"
	}
}

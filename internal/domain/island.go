package domain

import (
	"fmt"
	"strings"
)

// Island identifies one of the four major Hawaiian islands served by the
// dashboard. The Big Island uses its proper name "hawaii".
type Island string

const (
	Oahu      Island = "oahu"
	Maui      Island = "maui"
	Kauai     Island = "kauai"
	BigIsland Island = "hawaii"
)

// AllIslands returns the islands in canonical display order.
func AllIslands() []Island {
	return []Island{Oahu, Maui, Kauai, BigIsland}
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Representative point per island: the population center each dashboard
// page is anchored on, not the geographic centroid.
var islandCoordinates = map[Island]Coordinates{
	Oahu:      {Lat: 21.3069, Lon: -157.8583}, // Honolulu
	Maui:      {Lat: 20.8893, Lon: -156.4729}, // Kahului
	Kauai:     {Lat: 21.9811, Lon: -159.3711}, // Lihue
	BigIsland: {Lat: 19.7297, Lon: -155.0900}, // Hilo
}

// NWS observation stations, one per island (the main airport ASOS sites).
var islandStations = map[Island]string{
	Oahu:      "PHNL",
	Maui:      "PHOG",
	Kauai:     "PHLI",
	BigIsland: "PHTO",
}

// Coordinates returns the island's representative point.
func (i Island) Coordinates() Coordinates {
	return islandCoordinates[i]
}

// WeatherStation returns the island's NWS observation station identifier.
func (i Island) WeatherStation() string {
	return islandStations[i]
}

// ParseIsland converts user input to an Island, accepting a few common
// aliases for the Big Island.
func ParseIsland(s string) (Island, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oahu":
		return Oahu, nil
	case "maui":
		return Maui, nil
	case "kauai":
		return Kauai, nil
	case "hawaii", "big island", "big-island":
		return BigIsland, nil
	}
	return "", fmt.Errorf("unknown island %q", s)
}

// IslandFromText scans free text (a headline, an outage notice) for an
// island name. Returns false when no island is mentioned.
func IslandFromText(s string) (Island, bool) {
	lower := strings.ToLower(s)
	for _, island := range AllIslands() {
		if strings.Contains(lower, string(island)) {
			return island, true
		}
	}
	if strings.Contains(lower, "big island") || strings.Contains(lower, "honolulu") {
		if strings.Contains(lower, "honolulu") {
			return Oahu, true
		}
		return BigIsland, true
	}
	return "", false
}

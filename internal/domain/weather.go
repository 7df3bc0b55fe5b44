package domain

import "time"

// DefaultWindDirection is substituted when an upstream payload omits wind
// direction. Trade winds out of the northeast dominate Hawaiian weather.
const DefaultWindDirection = "NE"

// DefaultHumidity is the typical coastal relative humidity, substituted
// when an observation omits the field.
const DefaultHumidity = 70.0

// WeatherSnapshot is the normalized current-conditions record for one island.
type WeatherSnapshot struct {
	Island          Island    `json:"island"`
	TemperatureC    float64   `json:"temperature_c"`
	Humidity        float64   `json:"humidity"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	WindSpeedKPH    float64   `json:"wind_speed_kph"`
	WindDirection   string    `json:"wind_direction"`
	Condition       string    `json:"condition"`
	ObservedAt      time.Time `json:"observed_at"`
}

// WeatherIdentity keys a snapshot by island and UTC hour so that two sources
// observing the same hour collapse to one record.
func WeatherIdentity(island Island, observedAt time.Time) string {
	return IdentityHash("weather", string(island), hourBucket(observedAt))
}

// ConditionFromWMOCode maps a WMO weather interpretation code to a
// human-readable condition label.
func ConditionFromWMOCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Partly Cloudy"
	case code >= 45 && code <= 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 80 && code <= 82:
		return "Rain Showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CardinalFromDegrees converts a wind bearing to a 16-point compass label.
func CardinalFromDegrees(deg float64) string {
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+11.25)/22.5) % 16
	return compassPoints[idx]
}

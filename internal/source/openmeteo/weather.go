// Package openmeteo implements the Open-Meteo source adapters: current
// weather from the forecast API and surf readings from the marine API.
// Open-Meteo needs no API key, which is why it is the primary weather
// source.
package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

const forecastBaseURL = "https://api.open-meteo.com/v1"

// WeatherAdapter fetches current conditions for an island's representative
// point. Implements source.Adapter[domain.WeatherSnapshot].
type WeatherAdapter struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// NewWeatherAdapter creates the adapter with its own bounded HTTP client.
func NewWeatherAdapter(timeout time.Duration, logger *slog.Logger) *WeatherAdapter {
	return &WeatherAdapter{
		http:    resty.New().SetTimeout(timeout),
		baseURL: forecastBaseURL,
		logger:  logger,
	}
}

func (a *WeatherAdapter) Name() string { return "open-meteo" }

func (a *WeatherAdapter) Fetch(ctx context.Context, q source.Query) ([]domain.Record[domain.WeatherSnapshot], error) {
	coords := q.Island.Coordinates()

	var out forecastResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  fmt.Sprintf("%.4f", coords.Lat),
			"longitude": fmt.Sprintf("%.4f", coords.Lon),
			"current":   "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m,wind_direction_10m",
			"timezone":  "UTC",
		}).
		SetResult(&out).
		Get(a.baseURL + "/forecast")
	if err != nil {
		return nil, fmt.Errorf("open-meteo forecast request: %w", err)
	}
	if resp.IsError() {
		return nil, source.NewError(source.KindHTTP, a.Name(),
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	snapshot, err := normalizeForecast(out, q.Island)
	if err != nil {
		return nil, source.NewError(source.KindDecode, a.Name(), err)
	}

	return []domain.Record[domain.WeatherSnapshot]{{
		IdentityKey: domain.WeatherIdentity(q.Island, snapshot.ObservedAt),
		SourceName:  a.Name(),
		Timestamp:   snapshot.ObservedAt,
		Payload:     snapshot,
	}}, nil
}

// normalizeForecast converts the raw payload, substituting trade-wind
// defaults for missing optional fields.
func normalizeForecast(resp forecastResponse, island domain.Island) (domain.WeatherSnapshot, error) {
	cur := resp.Current
	if cur.Temperature == nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("payload missing temperature")
	}

	observedAt, err := time.Parse("2006-01-02T15:04", cur.Time)
	if err != nil {
		observedAt = time.Now().UTC().Truncate(time.Hour)
	}

	humidity := domain.DefaultHumidity
	if cur.Humidity != nil {
		humidity = *cur.Humidity
	}
	windDir := domain.DefaultWindDirection
	if cur.WindDirection != nil {
		windDir = domain.CardinalFromDegrees(*cur.WindDirection)
	}
	var windSpeed, precip float64
	if cur.WindSpeed != nil {
		windSpeed = *cur.WindSpeed
	}
	if cur.Precipitation != nil {
		precip = *cur.Precipitation
	}
	condition := "Unknown"
	if cur.WeatherCode != nil {
		condition = domain.ConditionFromWMOCode(*cur.WeatherCode)
	}

	return domain.WeatherSnapshot{
		Island:          island,
		TemperatureC:    *cur.Temperature,
		Humidity:        humidity,
		PrecipitationMM: precip,
		WindSpeedKPH:    windSpeed,
		WindDirection:   windDir,
		Condition:       condition,
		ObservedAt:      observedAt,
	}, nil
}

// Open-Meteo forecast API response types. Optional fields are pointers so
// missing values are distinguishable from zero.

type forecastResponse struct {
	Current currentConditions `json:"current"`
}

type currentConditions struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature_2m"`
	Humidity      *float64 `json:"relative_humidity_2m"`
	Precipitation *float64 `json:"precipitation"`
	WeatherCode   *int     `json:"weather_code"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
	WindDirection *float64 `json:"wind_direction_10m"`
}

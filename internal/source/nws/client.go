// Package nws implements the National Weather Service observation adapter,
// the backup weather source behind Open-Meteo. It reads the latest ASOS
// observation from the island's main airport station.
package nws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

const baseURL = "https://api.weather.gov"

// Adapter implements source.Adapter[domain.WeatherSnapshot].
type Adapter struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// New creates the NWS adapter. api.weather.gov requires a User-Agent
// identifying the caller.
func New(timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "kilo-data-service (ops@mokulua.dev)").
			SetHeader("Accept", "application/geo+json"),
		baseURL: baseURL,
		logger:  logger,
	}
}

func (a *Adapter) Name() string { return "nws" }

func (a *Adapter) Fetch(ctx context.Context, q source.Query) ([]domain.Record[domain.WeatherSnapshot], error) {
	station := q.Island.WeatherStation()

	var out observationResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("%s/stations/%s/observations/latest", a.baseURL, station))
	if err != nil {
		return nil, fmt.Errorf("nws observation request: %w", err)
	}
	if resp.IsError() {
		return nil, source.NewError(source.KindHTTP, a.Name(),
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	snapshot, err := normalizeObservation(out, q.Island)
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

// normalizeObservation converts a GeoJSON observation. NWS reports null for
// any sensor that did not produce a value, so every field defaults.
func normalizeObservation(resp observationResponse, island domain.Island) (domain.WeatherSnapshot, error) {
	props := resp.Properties
	if props.Temperature.Value == nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("observation missing temperature")
	}

	observedAt, err := time.Parse(time.RFC3339, props.Timestamp)
	if err != nil {
		observedAt = time.Now().UTC().Truncate(time.Hour)
	}

	humidity := domain.DefaultHumidity
	if props.RelativeHumidity.Value != nil {
		humidity = *props.RelativeHumidity.Value
	}
	windDir := domain.DefaultWindDirection
	if props.WindDirection.Value != nil {
		windDir = domain.CardinalFromDegrees(*props.WindDirection.Value)
	}
	var windSpeed, precip float64
	if props.WindSpeed.Value != nil {
		windSpeed = *props.WindSpeed.Value
	}
	if props.PrecipitationLastHour.Value != nil {
		precip = *props.PrecipitationLastHour.Value
	}
	condition := props.TextDescription
	if condition == "" {
		condition = "Unknown"
	}

	return domain.WeatherSnapshot{
		Island:          island,
		TemperatureC:    *props.Temperature.Value,
		Humidity:        humidity,
		PrecipitationMM: precip,
		WindSpeedKPH:    windSpeed,
		WindDirection:   windDir,
		Condition:       condition,
		ObservedAt:      observedAt,
	}, nil
}

// NWS API response types (GeoJSON feature properties). Sensor readings are
// quantitative values that may be null.

type observationResponse struct {
	Properties observationProperties `json:"properties"`
}

type observationProperties struct {
	Timestamp             string            `json:"timestamp"`
	TextDescription       string            `json:"textDescription"`
	Temperature           quantitativeValue `json:"temperature"`
	WindSpeed             quantitativeValue `json:"windSpeed"`
	WindDirection         quantitativeValue `json:"windDirection"`
	RelativeHumidity      quantitativeValue `json:"relativeHumidity"`
	PrecipitationLastHour quantitativeValue `json:"precipitationLastHour"`
}

type quantitativeValue struct {
	Value    *float64 `json:"value"`
	UnitCode string   `json:"unitCode"`
}

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

const marineBaseURL = "https://marine-api.open-meteo.com/v1"

const metersToFeet = 3.28084

// SurfAdapter fetches swell conditions for every monitored break on an
// island from the Open-Meteo marine API, one request per spot.
type SurfAdapter struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// NewSurfAdapter creates the adapter with its own bounded HTTP client.
func NewSurfAdapter(timeout time.Duration, logger *slog.Logger) *SurfAdapter {
	return &SurfAdapter{
		http:    resty.New().SetTimeout(timeout),
		baseURL: marineBaseURL,
		logger:  logger,
	}
}

func (a *SurfAdapter) Name() string { return "open-meteo-marine" }

// Fetch is tolerant of per-spot failures: a break whose request fails is
// skipped and logged, and the adapter only fails as a whole when no spot
// yields a reading.
func (a *SurfAdapter) Fetch(ctx context.Context, q source.Query) ([]domain.Record[domain.SurfReading], error) {
	spots := domain.SpotsFor(q.Island)
	records := make([]domain.Record[domain.SurfReading], 0, len(spots))

	var lastErr error
	for _, spot := range spots {
		reading, err := a.fetchSpot(ctx, spot)
		if err != nil {
			a.logger.Warn("surf spot fetch failed", "spot", spot.Name, "error", err)
			lastErr = err
			continue
		}
		records = append(records, domain.Record[domain.SurfReading]{
			IdentityKey: domain.SurfIdentity(spot.Name, reading.ObservedAt),
			SourceName:  a.Name(),
			Timestamp:   reading.ObservedAt,
			Payload:     reading,
		})
	}

	if len(records) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("all surf spots failed: %w", lastErr)
		}
		return nil, errors.New("no monitored breaks for island")
	}
	return records, nil
}

func (a *SurfAdapter) fetchSpot(ctx context.Context, spot domain.Spot) (domain.SurfReading, error) {
	var out marineResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  fmt.Sprintf("%.4f", spot.Coords.Lat),
			"longitude": fmt.Sprintf("%.4f", spot.Coords.Lon),
			"current":   "wave_height,wave_period,wave_direction",
			"timezone":  "UTC",
		}).
		SetResult(&out).
		Get(a.baseURL + "/marine")
	if err != nil {
		return domain.SurfReading{}, fmt.Errorf("marine request: %w", err)
	}
	if resp.IsError() {
		return domain.SurfReading{}, source.NewError(source.KindHTTP, a.Name(),
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	return normalizeMarine(out, spot)
}

// normalizeMarine converts a wave observation into a face-height reading.
// Face height spans 0.8x-1.2x the converted wave height, the spread the
// dashboard's surf widget displays as "2-4 ft".
func normalizeMarine(resp marineResponse, spot domain.Spot) (domain.SurfReading, error) {
	cur := resp.Current
	if cur.WaveHeight == nil {
		return domain.SurfReading{}, fmt.Errorf("payload missing wave height")
	}

	observedAt, err := time.Parse("2006-01-02T15:04", cur.Time)
	if err != nil {
		observedAt = time.Now().UTC().Truncate(time.Hour)
	}

	face := *cur.WaveHeight * metersToFeet
	var period float64
	if cur.WavePeriod != nil {
		period = *cur.WavePeriod
	}
	swellDir := domain.DefaultWindDirection
	if cur.WaveDirection != nil {
		swellDir = domain.CardinalFromDegrees(*cur.WaveDirection)
	}

	return domain.SurfReading{
		Spot:           spot.Name,
		Island:         spot.Island,
		Shore:          spot.Shore,
		FaceMinFt:      roundHalf(face * 0.8),
		FaceMaxFt:      roundHalf(face * 1.2),
		SwellPeriodS:   period,
		SwellDirection: swellDir,
		Quality:        domain.SurfQuality(face, period),
		ObservedAt:     observedAt,
	}, nil
}

// roundHalf rounds to the nearest half foot.
func roundHalf(v float64) float64 {
	return float64(int(v*2+0.5)) / 2
}

// Open-Meteo marine API response types.

type marineResponse struct {
	Current currentMarine `json:"current"`
}

type currentMarine struct {
	Time          string   `json:"time"`
	WaveHeight    *float64 `json:"wave_height"`
	WavePeriod    *float64 `json:"wave_period"`
	WaveDirection *float64 `json:"wave_direction"`
}

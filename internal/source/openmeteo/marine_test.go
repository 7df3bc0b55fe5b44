package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

func testSurfAdapter(baseURL string) *SurfAdapter {
	return &SurfAdapter{
		http:    resty.New().SetTimeout(2 * time.Second),
		baseURL: baseURL,
		logger:  slog.Default(),
	}
}

func marineBody(waveHeightM, periodS float64) string {
	return fmt.Sprintf(`{
		"current": {
			"time": "2026-03-14T08:00",
			"wave_height": %g,
			"wave_period": %g,
			"wave_direction": 315
		}
	}`, waveHeightM, periodS)
}

func TestSurfAdapter_FetchAllSpots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/marine", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marineBody(1.0, 14)))
	}))
	defer srv.Close()

	a := testSurfAdapter(srv.URL)
	records, err := a.Fetch(context.Background(), source.Query{Island: domain.Oahu})
	require.NoError(t, err)
	require.Len(t, records, len(domain.SpotsFor(domain.Oahu)))

	reading := records[0].Payload
	// 1.0 m is about 3.3 ft of face: 0.8x-1.2x rounded to half feet.
	assert.Equal(t, 2.5, reading.FaceMinFt)
	assert.Equal(t, 4.0, reading.FaceMaxFt)
	assert.Equal(t, 14.0, reading.SwellPeriodS)
	assert.Equal(t, "NW", reading.SwellDirection)
	assert.Equal(t, "fair", reading.Quality)
	assert.Equal(t, "Waikiki", reading.Spot)
}

func TestSurfAdapter_ToleratesPartialSpotFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// First spot fails, the rest succeed.
		if calls.Add(1) == 1 {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marineBody(2.5, 16)))
	}))
	defer srv.Close()

	a := testSurfAdapter(srv.URL)
	records, err := a.Fetch(context.Background(), source.Query{Island: domain.Oahu})
	require.NoError(t, err)
	assert.Len(t, records, len(domain.SpotsFor(domain.Oahu))-1)
}

func TestSurfAdapter_FailsWhenEverySpotFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	a := testSurfAdapter(srv.URL)
	_, err := a.Fetch(context.Background(), source.Query{Island: domain.Kauai})
	assert.Error(t, err)
}

func TestNormalizeMarine_QualityFromSize(t *testing.T) {
	spot := domain.Spot{Name: "Pipeline", Island: domain.Oahu, Shore: "north"}
	h := 3.0 // about 10 ft faces
	p := 16.0
	reading, err := normalizeMarine(marineResponse{Current: currentMarine{
		Time:       "2026-03-14T08:00",
		WaveHeight: &h,
		WavePeriod: &p,
	}}, spot)
	require.NoError(t, err)
	assert.Equal(t, "epic", reading.Quality)
	assert.Equal(t, domain.DefaultWindDirection, reading.SwellDirection)
}

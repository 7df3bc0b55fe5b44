package nws

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

func testAdapter(baseURL string) *Adapter {
	return &Adapter{
		http: resty.New().
			SetTimeout(2*time.Second).
			SetHeader("User-Agent", "test").
			SetHeader("Accept", "application/geo+json"),
		baseURL: baseURL,
		logger:  slog.Default(),
	}
}

const observationBody = `{
	"properties": {
		"timestamp": "2026-03-14T08:53:00+00:00",
		"textDescription": "Mostly Clear",
		"temperature": {"value": 24.4, "unitCode": "wmoUnit:degC"},
		"windSpeed": {"value": 18.36, "unitCode": "wmoUnit:km_h-1"},
		"windDirection": {"value": 60, "unitCode": "wmoUnit:degree_(angle)"},
		"relativeHumidity": {"value": 72.5, "unitCode": "wmoUnit:percent"},
		"precipitationLastHour": {"value": null, "unitCode": "wmoUnit:mm"}
	}
}`

func TestAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stations/PHNL/observations/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(observationBody))
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	records, err := a.Fetch(context.Background(), source.Query{Island: domain.Oahu})
	require.NoError(t, err)
	require.Len(t, records, 1)

	snap := records[0].Payload
	assert.Equal(t, "nws", records[0].SourceName)
	assert.Equal(t, 24.4, snap.TemperatureC)
	assert.Equal(t, 72.5, snap.Humidity)
	assert.Equal(t, "ENE", snap.WindDirection)
	assert.Equal(t, "Mostly Clear", snap.Condition)
	assert.Zero(t, snap.PrecipitationMM) // null sensor reading defaults
	assert.Equal(t, time.Date(2026, 3, 14, 8, 53, 0, 0, time.UTC), snap.ObservedAt.UTC())
}

func TestAdapter_NullSensorsUseDefaults(t *testing.T) {
	body := `{
		"properties": {
			"timestamp": "2026-03-14T08:53:00+00:00",
			"textDescription": "",
			"temperature": {"value": 23.0},
			"windSpeed": {"value": null},
			"windDirection": {"value": null},
			"relativeHumidity": {"value": null},
			"precipitationLastHour": {"value": null}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	records, err := a.Fetch(context.Background(), source.Query{Island: domain.BigIsland})
	require.NoError(t, err)
	require.Len(t, records, 1)

	snap := records[0].Payload
	assert.Equal(t, domain.DefaultHumidity, snap.Humidity)
	assert.Equal(t, domain.DefaultWindDirection, snap.WindDirection)
	assert.Equal(t, "Unknown", snap.Condition)
}

func TestAdapter_NullTemperatureFails(t *testing.T) {
	body := `{"properties": {"timestamp": "2026-03-14T08:53:00+00:00", "temperature": {"value": null}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	_, err := a.Fetch(context.Background(), source.Query{Island: domain.Oahu})
	require.Error(t, err)

	var srcErr *source.Error
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, source.KindDecode, srcErr.Kind)
}

func TestAdapter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	_, err := a.Fetch(context.Background(), source.Query{Island: domain.Maui})
	require.Error(t, err)

	var srcErr *source.Error
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, source.KindHTTP, srcErr.Kind)
}

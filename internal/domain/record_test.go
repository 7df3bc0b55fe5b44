package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mokulua/kilo-data-service/internal/domain"
)

func TestIdentityHash_Deterministic(t *testing.T) {
	a := domain.IdentityHash("weather", "oahu", "2026-03-14T08")
	b := domain.IdentityHash("weather", "oahu", "2026-03-14T08")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32) // 128 bits, hex encoded
}

func TestIdentityHash_DistinguishesInputs(t *testing.T) {
	assert.NotEqual(t,
		domain.IdentityHash("weather", "oahu"),
		domain.IdentityHash("weather", "maui"))
	// Joining must not let adjacent parts bleed into each other.
	assert.NotEqual(t,
		domain.IdentityHash("ab", "c"),
		domain.IdentityHash("a", "bc"))
}

func TestWeatherIdentity_HourBucket(t *testing.T) {
	base := time.Date(2026, 3, 14, 8, 5, 0, 0, time.UTC)

	// Same hour, different minutes: same key.
	assert.Equal(t,
		domain.WeatherIdentity(domain.Oahu, base),
		domain.WeatherIdentity(domain.Oahu, base.Add(40*time.Minute)))

	// Next hour: different key.
	assert.NotEqual(t,
		domain.WeatherIdentity(domain.Oahu, base),
		domain.WeatherIdentity(domain.Oahu, base.Add(time.Hour)))

	// Zone-shifted equivalent instants agree.
	hst := time.FixedZone("HST", -10*3600)
	assert.Equal(t,
		domain.WeatherIdentity(domain.Oahu, base),
		domain.WeatherIdentity(domain.Oahu, base.In(hst)))
}

func TestArticleIdentity_SyndicatedStory(t *testing.T) {
	a := domain.ArticleIdentity("https://www.example.com/story/lava-flow/?utm_source=rss")
	b := domain.ArticleIdentity("HTTPS://WWW.EXAMPLE.COM/story/lava-flow")
	assert.Equal(t, a, b)
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips tracking query", "https://ex.com/a?utm_source=rss&fbclid=x", "https://ex.com/a"},
		{"strips fragment", "https://ex.com/a#comments", "https://ex.com/a"},
		{"trims trailing slash", "https://ex.com/a/", "https://ex.com/a"},
		{"lowercases host", "https://EX.com/A", "https://ex.com/A"},
		{"surrounding whitespace", "  https://ex.com/a  ", "https://ex.com/a"},
		{"unparseable passthrough", "not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanonicalURL(tt.in))
		})
	}
}

func TestOutageIdentity_StatusUpdateSameDay(t *testing.T) {
	published := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	update := published.Add(6 * time.Hour)
	assert.Equal(t,
		domain.OutageIdentity("Kailua-Kona", published),
		domain.OutageIdentity("Kailua-Kona", update))
	assert.NotEqual(t,
		domain.OutageIdentity("Kailua-Kona", published),
		domain.OutageIdentity("Kailua-Kona", published.AddDate(0, 0, 1)))
}

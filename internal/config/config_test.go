package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, 10*time.Second, cfg.FanoutTimeout)

	require.Len(t, cfg.NewsFeeds, 3)
	assert.Equal(t, "hawaii-news-now", cfg.NewsFeeds[0].Name)
	assert.NotEmpty(t, cfg.OutageFeedURL)
	assert.Empty(t, cfg.EventsAPIURL)
	assert.True(t, cfg.NWSEnabled)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "daily-briefings", cfg.KafkaBriefingTopic)
	assert.Equal(t, "0 6 * * *", cfg.BriefingSchedule)
	assert.False(t, cfg.BriefingEnabled)
	assert.Equal(t, 5, cfg.BriefingTopNews)
	assert.Equal(t, 5, cfg.BriefingTopEvents)

	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, []string{"oahu", "maui", "kauai", "hawaii"}, cfg.Islands)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("ADAPTER_TIMEOUT", "4s")
	t.Setenv("FANOUT_TIMEOUT", "6s")
	t.Setenv("NEWS_FEEDS", "test-feed=https://ex.com/rss")
	t.Setenv("EVENTS_API_URL", "https://events.ex.com")
	t.Setenv("NWS_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("BRIEFING_ENABLED", "true")
	t.Setenv("BRIEFING_SCHEDULE", "30 5 * * *")
	t.Setenv("BRIEFING_TOP_NEWS", "10")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("ISLANDS", "oahu,maui")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, 6*time.Second, cfg.FanoutTimeout)
	require.Len(t, cfg.NewsFeeds, 1)
	assert.Equal(t, FeedSource{Name: "test-feed", URL: "https://ex.com/rss"}, cfg.NewsFeeds[0])
	assert.Equal(t, "https://events.ex.com", cfg.EventsAPIURL)
	assert.False(t, cfg.NWSEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.BriefingEnabled)
	assert.Equal(t, "30 5 * * *", cfg.BriefingSchedule)
	assert.Equal(t, 10, cfg.BriefingTopNews)
	assert.Equal(t, "secret", cfg.AdminToken)
	assert.Equal(t, []string{"oahu", "maui"}, cfg.Islands)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad cache backend", "CACHE_BACKEND", "memcached"},
		{"bad ttl", "CACHE_TTL", "soon"},
		{"negative timeout", "ADAPTER_TIMEOUT", "-1s"},
		{"redis db out of range", "REDIS_DB", "99"},
		{"bad cron spec", "BRIEFING_SCHEDULE", "whenever"},
		{"top news out of range", "BRIEFING_TOP_NEWS", "0"},
		{"feed without url", "NEWS_FEEDS", "just-a-name"},
		{"bad nws flag", "NWS_ENABLED", "yes please"},
		{"bad briefing flag", "BRIEFING_ENABLED", "enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_BoolFlagSpellings(t *testing.T) {
	t.Setenv("NWS_ENABLED", "0")
	t.Setenv("BRIEFING_ENABLED", "TRUE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.NWSEnabled)
	assert.True(t, cfg.BriefingEnabled)
}

func TestLoad_FanoutMustCoverAdapterTimeout(t *testing.T) {
	t.Setenv("ADAPTER_TIMEOUT", "10s")
	t.Setenv("FANOUT_TIMEOUT", "5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FANOUT_TIMEOUT")
}

func TestLoad_BriefingNeedsBrokers(t *testing.T) {
	t.Setenv("BRIEFING_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmptyIslands(t *testing.T) {
	t.Setenv("ISLANDS", " , ")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// FeedSource is one configured RSS feed.
type FeedSource struct {
	Name string
	URL  string
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Cache.
	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Fan-out.
	AdapterTimeout time.Duration
	FanoutTimeout  time.Duration

	// Upstream sources.
	NewsFeeds         []FeedSource
	OutageFeedURL     string
	EventsAPIURL      string
	EventsCalendarURL string
	NWSEnabled        bool

	// Briefing pipeline.
	KafkaBrokers       []string
	KafkaBriefingTopic string
	BriefingSchedule   string
	BriefingEnabled    bool
	BriefingTopNews    int
	BriefingTopEvents  int

	// Administration.
	AdminToken string

	Islands []string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present (local development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	adapterTimeout, err := parseDuration("ADAPTER_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}
	fanoutTimeout, err := parseDuration("FANOUT_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	redisDB, err := parseInt("REDIS_DB", 0, 0, 15)
	if err != nil {
		return nil, err
	}
	topNews, err := parseInt("BRIEFING_TOP_NEWS", 5, 1, 50)
	if err != nil {
		return nil, err
	}
	topEvents, err := parseInt("BRIEFING_TOP_EVENTS", 5, 1, 50)
	if err != nil {
		return nil, err
	}

	nwsEnabled, err := parseBool("NWS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	briefingEnabled, err := parseBool("BRIEFING_ENABLED", false)
	if err != nil {
		return nil, err
	}

	newsFeeds, err := parseFeeds(envOrDefault("NEWS_FEEDS",
		"hawaii-news-now=https://www.hawaiinewsnow.com/rss/,"+
			"civil-beat=https://www.civilbeat.org/feed/,"+
			"star-advertiser=https://www.staradvertiser.com/feed/"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CacheBackend:  envOrDefault("CACHE_BACKEND", "memory"),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      cacheTTL,

		AdapterTimeout: adapterTimeout,
		FanoutTimeout:  fanoutTimeout,

		NewsFeeds:         newsFeeds,
		OutageFeedURL:     envOrDefault("OUTAGE_FEED_URL", "https://www.hawaiianelectric.com/outages/rss"),
		EventsAPIURL:      os.Getenv("EVENTS_API_URL"),
		EventsCalendarURL: os.Getenv("EVENTS_CALENDAR_URL"),
		NWSEnabled:        nwsEnabled,

		KafkaBrokers:       splitAndTrim(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaBriefingTopic: envOrDefault("KAFKA_BRIEFING_TOPIC", "daily-briefings"),
		BriefingSchedule:   envOrDefault("BRIEFING_SCHEDULE", "0 6 * * *"),
		BriefingEnabled:    briefingEnabled,
		BriefingTopNews:    topNews,
		BriefingTopEvents:  topEvents,

		AdminToken: os.Getenv("ADMIN_TOKEN"),

		Islands: splitAndTrim(envOrDefault("ISLANDS", "oahu,maui,kauai,hawaii")),
	}

	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q (want memory or redis)", cfg.CacheBackend)
	}
	if cfg.CacheBackend == "redis" && cfg.RedisAddr == "" {
		return nil, errors.New("CACHE_BACKEND is redis but REDIS_ADDR is not set")
	}
	if cfg.FanoutTimeout < cfg.AdapterTimeout {
		return nil, errors.New("FANOUT_TIMEOUT must be at least ADAPTER_TIMEOUT")
	}
	if _, err := cron.ParseStandard(cfg.BriefingSchedule); err != nil {
		return nil, fmt.Errorf("invalid BRIEFING_SCHEDULE: %w", err)
	}
	if cfg.BriefingEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("BRIEFING_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if len(cfg.Islands) == 0 {
		return nil, errors.New("ISLANDS must name at least one island")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseInt(key string, fallback, minimum, maximum int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum || n > maximum {
		return 0, fmt.Errorf("invalid %s %q (want %d-%d)", key, s, minimum, maximum)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return b, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseFeeds parses a comma-separated list of name=url pairs.
func parseFeeds(s string) ([]FeedSource, error) {
	var feeds []FeedSource
	for _, pair := range splitAndTrim(s) {
		name, url, ok := strings.Cut(pair, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid NEWS_FEEDS entry %q (want name=url)", pair)
		}
		feeds = append(feeds, FeedSource{Name: name, URL: url})
	}
	return feeds, nil
}

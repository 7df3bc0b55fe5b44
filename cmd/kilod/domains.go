package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpadapter "github.com/mokulua/kilo-data-service/internal/adapter/http"
	"github.com/mokulua/kilo-data-service/internal/aggregate"
	"github.com/mokulua/kilo-data-service/internal/briefing"
	"github.com/mokulua/kilo-data-service/internal/cache"
	"github.com/mokulua/kilo-data-service/internal/config"
	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/observability"
	"github.com/mokulua/kilo-data-service/internal/source"
	"github.com/mokulua/kilo-data-service/internal/source/calendar"
	"github.com/mokulua/kilo-data-service/internal/source/jellyfish"
	"github.com/mokulua/kilo-data-service/internal/source/nws"
	"github.com/mokulua/kilo-data-service/internal/source/openmeteo"
	"github.com/mokulua/kilo-data-service/internal/source/rss"
)

// hawaiiKeywords boost news coverage of local civic topics over wire-service
// filler when feeds overlap.
var hawaiiKeywords = []string{
	"hawaii", "oahu", "maui", "kauai", "honolulu", "hilo", "kona",
	"waikiki", "volcano", "lava", "tsunami", "hurricane", "brush fire",
	"surf", "north shore", "doe", "heco",
}

// eventKeywords mark listings dashboard readers consistently click through to.
var eventKeywords = []string{
	"festival", "luau", "farmers market", "concert", "hula", "lei",
	"free admission", "keiki",
}

// aggregators bundles the six per-domain aggregation pipelines.
type aggregators struct {
	weather   *aggregate.Aggregator[domain.WeatherSnapshot]
	surf      *aggregate.Aggregator[domain.SurfReading]
	news      *aggregate.Aggregator[domain.NewsArticle]
	events    *aggregate.Aggregator[domain.EventListing]
	outages   *aggregate.Aggregator[domain.OutageNotice]
	jellyfish *aggregate.Aggregator[domain.JellyfishForecast]
}

func newAggregators(cfg *config.Config, store cache.Store, logger *slog.Logger, metrics *observability.Metrics) *aggregators {
	weatherReg := source.NewRegistry[domain.WeatherSnapshot]()
	weatherReg.Register(openmeteo.NewWeatherAdapter(cfg.AdapterTimeout, logger), 1, true)
	weatherReg.Register(nws.New(cfg.AdapterTimeout, logger), 2, cfg.NWSEnabled)

	surfReg := source.NewRegistry[domain.SurfReading]()
	surfReg.Register(openmeteo.NewSurfAdapter(cfg.AdapterTimeout, logger), 1, true)

	newsReg := source.NewRegistry[domain.NewsArticle]()
	for i, feed := range cfg.NewsFeeds {
		newsReg.Register(rss.NewNewsAdapter(feed.Name, feed.URL, cfg.AdapterTimeout), i+1, true)
	}

	eventsReg := source.NewRegistry[domain.EventListing]()
	eventsReg.Register(calendar.NewAPIAdapter(cfg.EventsAPIURL, cfg.AdapterTimeout, logger), 1, cfg.EventsAPIURL != "")
	eventsReg.Register(calendar.NewScraperAdapter(cfg.EventsCalendarURL, cfg.AdapterTimeout, logger), 2, cfg.EventsCalendarURL != "")

	outagesReg := source.NewRegistry[domain.OutageNotice]()
	outagesReg.Register(rss.NewOutageAdapter("outage-feed", cfg.OutageFeedURL, cfg.AdapterTimeout), 1, true)

	jellyfishReg := source.NewRegistry[domain.JellyfishForecast]()
	jellyfishReg.Register(jellyfish.New(nil), 1, true)

	return &aggregators{
		weather: aggregate.New(aggregate.Config[domain.WeatherSnapshot]{
			Name:          "weather",
			Registry:      weatherReg,
			Store:         store,
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
			Fallback:      fallbackFor(domain.FallbackWeather),
		}, logger, metrics),
		surf: aggregate.New(aggregate.Config[domain.SurfReading]{
			Name:          "surf",
			Registry:      surfReg,
			Store:         store,
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
			Fallback:      fallbackFor(domain.FallbackSurf),
		}, logger, metrics),
		news: aggregate.New(aggregate.Config[domain.NewsArticle]{
			Name:          "news",
			Registry:      newsReg,
			Store:         store,
			Policy:        newsPolicy(),
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
			Fallback:      fallbackFor(domain.FallbackNews),
		}, logger, metrics),
		events: aggregate.New(aggregate.Config[domain.EventListing]{
			Name:          "events",
			Registry:      eventsReg,
			Store:         store,
			Policy:        eventsPolicy(),
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
			Fallback:      fallbackFor(domain.FallbackEvents),
		}, logger, metrics),
		outages: aggregate.New(aggregate.Config[domain.OutageNotice]{
			Name:          "outages",
			Registry:      outagesReg,
			Store:         store,
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
			Fallback:      fallbackFor(domain.FallbackOutages),
		}, logger, metrics),
		jellyfish: aggregate.New(aggregate.Config[domain.JellyfishForecast]{
			Name:          "jellyfish",
			Registry:      jellyfishReg,
			Store:         store,
			TTL:           cfg.CacheTTL,
			FanoutTimeout: cfg.FanoutTimeout,
		}, logger, metrics),
	}
}

// fallbackFor adapts the island-keyed defaults to the query-keyed hook.
func fallbackFor[T any](fn func(domain.Island) []domain.Record[T]) func(source.Query) []domain.Record[T] {
	return func(q source.Query) []domain.Record[T] {
		return fn(q.Island)
	}
}

func newsPolicy() aggregate.Policy[domain.NewsArticle] {
	return aggregate.Policy[domain.NewsArticle]{
		aggregate.Keywords("local-relevance", 1, hawaiiKeywords, func(a domain.NewsArticle) string {
			return a.Title + " " + a.Summary
		}),
		aggregate.When("recent", 2, func(a domain.NewsArticle) bool {
			return time.Since(a.PublishedAt) < 24*time.Hour
		}),
	}
}

func eventsPolicy() aggregate.Policy[domain.EventListing] {
	return aggregate.Policy[domain.EventListing]{
		aggregate.When("free", 2, func(e domain.EventListing) bool { return e.Free }),
		aggregate.When("soon", 1, func(e domain.EventListing) bool {
			until := time.Until(e.StartTime)
			return until >= 0 && until < 72*time.Hour
		}),
		aggregate.Keywords("popular", 1, eventKeywords, func(e domain.EventListing) string {
			return e.Title
		}),
	}
}

// briefingSources exposes the aggregators to the briefing composer.
func (a *aggregators) briefingSources() briefing.Sources {
	return briefing.Sources{
		Weather:   a.weather,
		Surf:      a.surf,
		News:      a.news,
		Events:    a.events,
		Outages:   a.outages,
		Jellyfish: a.jellyfish,
	}
}

// domainFuncs maps URL path segments to aggregation calls.
func (a *aggregators) domainFuncs() map[string]httpadapter.DomainFunc {
	return map[string]httpadapter.DomainFunc{
		"weather": func(ctx context.Context, island domain.Island) any {
			return a.weather.Get(ctx, source.Query{Island: island})
		},
		"surf": func(ctx context.Context, island domain.Island) any {
			return a.surf.Get(ctx, source.Query{Island: island})
		},
		"news": func(ctx context.Context, island domain.Island) any {
			return a.news.Get(ctx, source.Query{Island: island})
		},
		"events": func(ctx context.Context, island domain.Island) any {
			return a.events.Get(ctx, source.Query{Island: island})
		},
		"outages": func(ctx context.Context, island domain.Island) any {
			return a.outages.Get(ctx, source.Query{Island: island})
		},
		"jellyfish": func(ctx context.Context, island domain.Island) any {
			return a.jellyfish.Get(ctx, source.Query{Island: island})
		},
	}
}

// CheckReadiness reports ready once every domain has served a request.
func (a *aggregators) CheckReadiness(ctx context.Context) error {
	checks := map[string]interface {
		CheckReadiness(context.Context) error
	}{
		"weather":   a.weather,
		"surf":      a.surf,
		"news":      a.news,
		"events":    a.events,
		"outages":   a.outages,
		"jellyfish": a.jellyfish,
	}
	for name, c := range checks {
		if err := c.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// warm prefetches every domain for every configured island so the first
// dashboard render hits a populated cache.
func (a *aggregators) warm(ctx context.Context, islands []domain.Island, logger *slog.Logger) {
	start := time.Now()
	for _, island := range islands {
		for name, fn := range a.domainFuncs() {
			if ctx.Err() != nil {
				return
			}
			_ = fn(ctx, island)
			logger.Debug("cache warmed", "domain", name, "island", island)
		}
	}
	logger.Info("cache warmup complete", "islands", len(islands), "duration", time.Since(start))
}

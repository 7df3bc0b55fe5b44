// Package briefing composes the daily morning snapshot for each island and
// hands it to the delivery topic. Delivery itself (email rendering, push
// notifications) happens in downstream workers.
package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mokulua/kilo-data-service/internal/aggregate"
	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/observability"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// Getter is the aggregation front door for one domain, satisfied by
// *aggregate.Aggregator[T].
type Getter[T any] interface {
	Get(ctx context.Context, q source.Query) aggregate.Outcome[T]
}

// Publisher delivers a composed briefing. The production implementation
// writes to Kafka.
type Publisher interface {
	Publish(ctx context.Context, b DailyBriefing) error
}

// Section is one domain's slice of a briefing. Degraded marks sections
// built from stale, fallback, or partially failed aggregations so the
// renderer can caveat them.
type Section[T any] struct {
	Records  []domain.Record[T] `json:"records"`
	Origin   aggregate.Origin   `json:"origin"`
	Degraded bool               `json:"degraded"`
}

// DailyBriefing is the document published per island per run.
type DailyBriefing struct {
	ID          string        `json:"id"`
	Island      domain.Island `json:"island"`
	GeneratedAt time.Time     `json:"generated_at"`

	Weather   Section[domain.WeatherSnapshot]   `json:"weather"`
	Surf      Section[domain.SurfReading]       `json:"surf"`
	News      Section[domain.NewsArticle]       `json:"news"`
	Events    Section[domain.EventListing]      `json:"events"`
	Outages   Section[domain.OutageNotice]      `json:"outages"`
	Jellyfish Section[domain.JellyfishForecast] `json:"jellyfish"`
}

// Sources bundles the per-domain aggregators the composer reads from.
type Sources struct {
	Weather   Getter[domain.WeatherSnapshot]
	Surf      Getter[domain.SurfReading]
	News      Getter[domain.NewsArticle]
	Events    Getter[domain.EventListing]
	Outages   Getter[domain.OutageNotice]
	Jellyfish Getter[domain.JellyfishForecast]
}

// Composer assembles and publishes briefings.
type Composer struct {
	sources   Sources
	publisher Publisher
	islands   []domain.Island
	topNews   int
	topEvents int
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewComposer wires a composer for the configured islands.
func NewComposer(sources Sources, publisher Publisher, islands []domain.Island, topNews, topEvents int, logger *slog.Logger, metrics *observability.Metrics) *Composer {
	return &Composer{
		sources:   sources,
		publisher: publisher,
		islands:   islands,
		topNews:   topNews,
		topEvents: topEvents,
		logger:    logger,
		metrics:   metrics,
	}
}

// Compose builds one island's briefing. Aggregators never fail, so neither
// does Compose; degraded sections are marked, not dropped.
func (c *Composer) Compose(ctx context.Context, island domain.Island) DailyBriefing {
	q := source.Query{Island: island}
	return DailyBriefing{
		ID:          uuid.NewString(),
		Island:      island,
		GeneratedAt: time.Now().UTC(),
		Weather:     section(c.sources.Weather.Get(ctx, q), 0),
		Surf:        section(c.sources.Surf.Get(ctx, q), 0),
		News:        section(c.sources.News.Get(ctx, q), c.topNews),
		Events:      section(c.sources.Events.Get(ctx, q), c.topEvents),
		Outages:     section(c.sources.Outages.Get(ctx, q), 0),
		Jellyfish:   section(c.sources.Jellyfish.Get(ctx, q), 0),
	}
}

// Run composes and publishes a briefing for every configured island.
// A publish failure for one island does not stop the others.
func (c *Composer) Run(ctx context.Context) error {
	var failed int
	for _, island := range c.islands {
		b := c.Compose(ctx, island)
		if err := c.publisher.Publish(ctx, b); err != nil {
			c.logger.Error("briefing publish failed", "island", island, "briefing_id", b.ID, "error", err)
			c.metrics.BriefingErrors.Inc()
			failed++
			continue
		}
		c.metrics.BriefingsPublished.Inc()
		c.logger.Info("briefing published", "island", island, "briefing_id", b.ID)
	}
	if failed > 0 {
		return fmt.Errorf("briefing run: %d of %d islands failed to publish", failed, len(c.islands))
	}
	return nil
}

// section trims an outcome to its top records. Merge already ordered them
// by score and recency, so trimming keeps the best. limit <= 0 keeps all.
func section[T any](out aggregate.Outcome[T], limit int) Section[T] {
	records := out.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return Section[T]{
		Records:  records,
		Origin:   out.Origin,
		Degraded: out.Degraded(),
	}
}

// Package aggregate implements the resilient aggregation pipeline shared by
// every dashboard domain: check cache, fan out to the enabled source
// adapters concurrently, merge and score, write through, and degrade to
// stale cache or static defaults when every source fails. One generic
// Aggregator replaces the per-domain copies a naive implementation would
// accumulate.
package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mokulua/kilo-data-service/internal/cache"
	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/observability"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// Origin records how an outcome was produced.
type Origin string

const (
	OriginCache    Origin = "cache"    // fresh cache hit
	OriginLive     Origin = "live"     // fan-out produced records
	OriginStale    Origin = "stale"    // all sources failed, expired entry served
	OriginFallback Origin = "fallback" // all sources failed, static defaults served
)

// Outcome is what callers receive. There is no error: the aggregator always
// resolves to a well-formed record list, possibly degraded, with per-source
// failures exposed as diagnostics rather than surfaced as errors.
type Outcome[T any] struct {
	Records      []domain.Record[T] `json:"records"`
	Origin       Origin             `json:"origin"`
	SourceErrors map[string]string  `json:"source_errors,omitempty"`
}

// Degraded reports whether the outcome is anything other than fresh data.
func (o Outcome[T]) Degraded() bool {
	return o.Origin == OriginStale || o.Origin == OriginFallback || len(o.SourceErrors) > 0
}

// Config wires one domain's aggregator.
type Config[T any] struct {
	// Name is the domain label ("weather", "news", ...), used as the cache
	// key prefix and the metrics label.
	Name string

	Registry *source.Registry[T]
	Store    cache.Store
	Policy   Policy[T]

	// TTL is the freshness window written with every cache entry.
	TTL time.Duration

	// FanoutTimeout bounds one complete fan-out; it should be at least the
	// slowest adapter's own timeout.
	FanoutTimeout time.Duration

	// Fallback produces the static default record set for a query. May be
	// nil for domains where an empty degraded result is acceptable.
	Fallback func(source.Query) []domain.Record[T]
}

// Aggregator orchestrates cache, fan-out, merge, and fallback for one
// domain. Safe for concurrent use; concurrent requests for the same key
// coalesce into a single in-flight fan-out.
type Aggregator[T any] struct {
	cfg     Config[T]
	group   singleflight.Group
	ready   atomic.Bool
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Aggregator for one domain.
func New[T any](cfg Config[T], logger *slog.Logger, metrics *observability.Metrics) *Aggregator[T] {
	return &Aggregator[T]{
		cfg:     cfg,
		logger:  logger.With("domain", cfg.Name),
		metrics: metrics,
	}
}

// Get serves one aggregation request. A fresh cache hit short-circuits the
// pipeline; otherwise the request joins or starts the single in-flight
// fan-out for its key. Get never returns an error: total source failure
// degrades to stale cache and then to the static fallback.
func (a *Aggregator[T]) Get(ctx context.Context, q source.Query) Outcome[T] {
	key := a.cfg.Name + ":" + q.Key()

	if out, ok := a.fromCache(ctx, key); ok {
		a.metrics.CacheLookups.WithLabelValues(a.cfg.Name, "hit").Inc()
		return a.serve(out)
	}
	a.metrics.CacheLookups.WithLabelValues(a.cfg.Name, "miss").Inc()

	// The singleflight group guarantees at most one concurrent fan-out per
	// key; latecomers block on the leader's flight and share its outcome.
	v, _, shared := a.group.Do(key, func() (any, error) {
		return a.refresh(ctx, key, q), nil
	})
	if shared {
		a.metrics.Coalesced.WithLabelValues(a.cfg.Name).Inc()
	}
	return a.serve(v.(Outcome[T]))
}

// CheckReadiness reports ready once the aggregator has served any request.
func (a *Aggregator[T]) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return fmt.Errorf("%s aggregator has not served a request yet", a.cfg.Name)
	}
	return nil
}

func (a *Aggregator[T]) serve(out Outcome[T]) Outcome[T] {
	a.metrics.Served.WithLabelValues(a.cfg.Name, string(out.Origin)).Inc()
	a.ready.Store(true)
	return out
}

// fromCache attempts the fresh-read short circuit.
func (a *Aggregator[T]) fromCache(ctx context.Context, key string) (Outcome[T], bool) {
	buf, ok, err := a.cfg.Store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("cache read failed", "key", key, "error", err)
		return Outcome[T]{}, false
	}
	if !ok {
		return Outcome[T]{}, false
	}
	records, err := decodeRecords[T](buf)
	if err != nil {
		a.logger.Warn("cache entry corrupt, refetching", "key", key, "error", err)
		return Outcome[T]{}, false
	}
	return Outcome[T]{Records: records, Origin: OriginCache}, true
}

// refresh runs one full fan-out-merge-write cycle and resolves the fallback
// chain on total failure.
func (a *Aggregator[T]) refresh(ctx context.Context, key string, q source.Query) Outcome[T] {
	start := time.Now()
	results := a.fanout(ctx, q)
	a.metrics.FanoutDuration.WithLabelValues(a.cfg.Name).Observe(time.Since(start).Seconds())

	srcErrs := make(map[string]string)
	for _, res := range results {
		if res.Err != nil {
			srcErrs[res.Source] = res.Err.Error()
			a.logger.Warn("source fetch failed", "source", res.Source, "error", res.Err)
		}
	}
	if len(srcErrs) == 0 {
		srcErrs = nil
	}

	merged := Merge(results, a.cfg.Policy)
	if len(merged) > 0 {
		a.writeThrough(ctx, key, merged)
		return Outcome[T]{Records: merged, Origin: OriginLive, SourceErrors: srcErrs}
	}

	// Total source failure: stale data beats nothing, static defaults beat
	// an error. The next cache-miss cycle retries the sources naturally.
	if buf, ok, err := a.cfg.Store.GetStale(ctx, key); err == nil && ok {
		if records, err := decodeRecords[T](buf); err == nil {
			a.metrics.Fallbacks.WithLabelValues(a.cfg.Name, "stale").Inc()
			return Outcome[T]{Records: records, Origin: OriginStale, SourceErrors: srcErrs}
		}
	}

	a.metrics.Fallbacks.WithLabelValues(a.cfg.Name, "static").Inc()
	var records []domain.Record[T]
	if a.cfg.Fallback != nil {
		records = a.cfg.Fallback(q)
	}
	return Outcome[T]{Records: records, Origin: OriginFallback, SourceErrors: srcErrs}
}

// fanout invokes every enabled adapter concurrently and waits for all of
// them to settle. Results keep registry priority order regardless of
// completion order, which keeps merging deterministic.
func (a *Aggregator[T]) fanout(ctx context.Context, q source.Query) []source.Result[T] {
	adapters := a.cfg.Registry.Enabled()
	results := make([]source.Result[T], len(adapters))

	fanCtx, cancel := context.WithTimeout(ctx, a.cfg.FanoutTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, ad := range adapters {
		wg.Add(1)
		go func(i int, ad source.Adapter[T]) {
			defer wg.Done()
			start := time.Now()
			records, err := ad.Fetch(fanCtx, q)
			a.metrics.AdapterDuration.WithLabelValues(a.cfg.Name, ad.Name()).Observe(time.Since(start).Seconds())

			outcome := "success"
			switch {
			case err != nil:
				outcome = "error"
			case len(records) == 0:
				outcome = "empty"
			}
			a.metrics.AdapterRequests.WithLabelValues(a.cfg.Name, ad.Name(), outcome).Inc()

			if err != nil {
				results[i] = source.Result[T]{Source: ad.Name(), Err: source.Classify(ad.Name(), err)}
				return
			}
			results[i] = source.Result[T]{Source: ad.Name(), Records: records}
		}(i, ad)
	}
	wg.Wait()
	return results
}

func (a *Aggregator[T]) writeThrough(ctx context.Context, key string, records []domain.Record[T]) {
	buf, err := json.Marshal(records)
	if err != nil {
		a.logger.Error("cache encode failed", "key", key, "error", err)
		return
	}
	if err := a.cfg.Store.Set(ctx, key, buf, a.cfg.TTL); err != nil {
		a.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func decodeRecords[T any](buf []byte) ([]domain.Record[T], error) {
	var records []domain.Record[T]
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, err
	}
	return records, nil
}

package aggregate_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokulua/kilo-data-service/internal/aggregate"
	"github.com/mokulua/kilo-data-service/internal/cache"
	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/observability"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// --- mocks ---

// fakeAdapter counts invocations and optionally blocks until released, so
// tests can hold a fan-out in flight.
type fakeAdapter struct {
	name    string
	records []domain.Record[article]
	err     error
	calls   atomic.Int64
	block   chan struct{}
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context, _ source.Query) ([]domain.Record[article], error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fixture struct {
	agg   *aggregate.Aggregator[article]
	store *cache.Memory
	clock *clockwork.FakeClock
}

func newFixture(t *testing.T, cacheTTL time.Duration, fallback func(source.Query) []domain.Record[article], adapters ...*fakeAdapter) fixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	store := cache.NewMemory(clock)

	reg := source.NewRegistry[article]()
	for i, a := range adapters {
		reg.Register(a, i+1, true)
	}

	agg := aggregate.New(aggregate.Config[article]{
		Name:          "news",
		Registry:      reg,
		Store:         store,
		TTL:           cacheTTL,
		FanoutTimeout: 5 * time.Second,
		Fallback:      fallback,
	}, slog.Default(), observability.NewMetricsForTesting())

	return fixture{agg: agg, store: store, clock: clock}
}

var query = source.Query{Island: domain.Oahu}

// --- tests ---

func TestAggregator_LiveThenCached(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", records: []domain.Record[article]{rec("story", "feed", baseTime)}}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	out := f.agg.Get(ctx, query)
	assert.Equal(t, aggregate.OriginLive, out.Origin)
	require.Len(t, out.Records, 1)
	assert.False(t, out.Degraded())

	// Second request inside the TTL is a cache hit: no adapter call.
	out = f.agg.Get(ctx, query)
	assert.Equal(t, aggregate.OriginCache, out.Origin)
	require.Len(t, out.Records, 1)
	assert.Equal(t, int64(1), adapter.calls.Load())
}

func TestAggregator_RefetchesAfterTTL(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", records: []domain.Record[article]{rec("story", "feed", baseTime)}}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	f.agg.Get(ctx, query)
	f.clock.Advance(10*time.Minute + time.Second)

	out := f.agg.Get(ctx, query)
	assert.Equal(t, aggregate.OriginLive, out.Origin)
	assert.Equal(t, int64(2), adapter.calls.Load())
}

func TestAggregator_PartialSuccessIsLiveButDegraded(t *testing.T) {
	good := &fakeAdapter{name: "good", records: []domain.Record[article]{rec("story", "good", baseTime)}}
	bad := &fakeAdapter{name: "bad", err: errors.New("http 500")}
	f := newFixture(t, 10*time.Minute, nil, good, bad)

	out := f.agg.Get(context.Background(), query)

	assert.Equal(t, aggregate.OriginLive, out.Origin)
	require.Len(t, out.Records, 1)
	assert.True(t, out.Degraded())
	assert.Contains(t, out.SourceErrors, "bad")
}

func TestAggregator_ServesStaleWhenAllSourcesFail(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", records: []domain.Record[article]{rec("story", "feed", baseTime)}}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	// Seed the cache, expire it, then break the source.
	f.agg.Get(ctx, query)
	f.clock.Advance(time.Hour)
	adapter.err = errors.New("upstream down")
	adapter.records = nil

	out := f.agg.Get(ctx, query)
	assert.Equal(t, aggregate.OriginStale, out.Origin)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "story", out.Records[0].IdentityKey)
	assert.True(t, out.Degraded())
	assert.Contains(t, out.SourceErrors, "feed")
}

func TestAggregator_StaticFallbackWhenNothingCached(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", err: errors.New("upstream down")}
	fallback := func(q source.Query) []domain.Record[article] {
		return []domain.Record[article]{rec("default", "fallback", time.Time{})}
	}
	f := newFixture(t, 10*time.Minute, fallback, adapter)

	out := f.agg.Get(context.Background(), query)

	assert.Equal(t, aggregate.OriginFallback, out.Origin)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "fallback", out.Records[0].SourceName)
}

func TestAggregator_NoFallbackConfigured(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", err: errors.New("upstream down")}
	f := newFixture(t, 10*time.Minute, nil, adapter)

	out := f.agg.Get(context.Background(), query)

	// Still no error surface: an empty degraded outcome.
	assert.Equal(t, aggregate.OriginFallback, out.Origin)
	assert.Empty(t, out.Records)
}

func TestAggregator_CoalescesConcurrentMisses(t *testing.T) {
	adapter := &fakeAdapter{
		name:    "feed",
		records: []domain.Record[article]{rec("story", "feed", baseTime)},
		block:   make(chan struct{}),
	}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	outcomes := make([]aggregate.Outcome[article], callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = f.agg.Get(ctx, query)
		}(i)
	}

	// Let every caller reach the singleflight gate, then release the one
	// in-flight fetch.
	require.Eventually(t, func() bool {
		return adapter.calls.Load() >= 1
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(adapter.block)
	wg.Wait()

	assert.Equal(t, int64(1), adapter.calls.Load(), "concurrent misses must share one fan-out")
	for _, out := range outcomes {
		require.Len(t, out.Records, 1)
	}
}

func TestAggregator_ReadinessFlipsAfterFirstServe(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", records: []domain.Record[article]{rec("story", "feed", baseTime)}}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	require.Error(t, f.agg.CheckReadiness(ctx))
	f.agg.Get(ctx, query)
	assert.NoError(t, f.agg.CheckReadiness(ctx))
}

func TestAggregator_WriteThroughRoundTrips(t *testing.T) {
	adapter := &fakeAdapter{name: "feed", records: []domain.Record[article]{
		{IdentityKey: "k", SourceName: "feed", Timestamp: baseTime, Payload: article{Title: "Surf contest", Free: true}},
	}}
	f := newFixture(t, 10*time.Minute, nil, adapter)
	ctx := context.Background()

	f.agg.Get(ctx, query)
	out := f.agg.Get(ctx, query)

	require.Equal(t, aggregate.OriginCache, out.Origin)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "Surf contest", out.Records[0].Payload.Title)
	assert.True(t, out.Records[0].Payload.Free)
}

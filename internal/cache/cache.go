// Package cache provides the TTL store consumed by the aggregation layer.
// An entry is fresh while now - insertedAt < ttl; once expired it is absent
// for Get but remains readable through GetStale until overwritten or
// cleared, which is what makes stale-data fallback possible.
package cache

import (
	"context"
	"time"
)

// Store is the backend-agnostic TTL cache contract. Values are opaque bytes
// so backends can be swapped (in-process map, Redis) without touching the
// aggregation layer.
type Store interface {
	// Get returns the value only while it is fresh. ok=false otherwise.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// GetStale returns the most recent value regardless of freshness.
	// Used exclusively by the aggregator's fallback path.
	GetStale(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set overwrites the entry unconditionally and restarts its TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear drops all entries. Administrative only.
	Clear(ctx context.Context) error
}

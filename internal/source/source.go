// Package source defines the contract every upstream data source satisfies:
// a named adapter that fetches and normalizes records for one query, bounded
// by its own timeout, reporting failure as a returned error rather than a
// panic. The registry holds the configured adapter set for one domain in
// priority order.
package source

import (
	"context"

	"github.com/mokulua/kilo-data-service/internal/domain"
)

// Query identifies one aggregation request. Island is the only query
// dimension the dashboard needs; statewide sources (news feeds) ignore it.
type Query struct {
	Island domain.Island
}

// Key returns the query's cache-key component.
func (q Query) Key() string {
	return string(q.Island)
}

// Adapter wraps one upstream data source. Fetch must settle within the
// adapter's own timeout and must convert every upstream failure (HTTP error,
// malformed payload, deadline) into a returned error. Returned records carry
// no score; scoring happens at merge time.
type Adapter[T any] interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]domain.Record[T], error)
}

// Result is the settled outcome of one adapter call within a fan-out.
// A failed call has a nil Records slice and a non-nil Err.
type Result[T any] struct {
	Source  string
	Records []domain.Record[T]
	Err     error
}

// OK reports whether the adapter call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

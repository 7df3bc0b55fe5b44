// Package rss implements the gofeed-backed feed adapter. One generic
// adapter covers every feed-shaped source: news outlets and the utility's
// outage notice feed differ only in their normalizer.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// defaultMaxAge drops items older than a week; the dashboard has no use
// for archive content.
const defaultMaxAge = 7 * 24 * time.Hour

// Normalizer converts one feed item into a record. Returning ok=false drops
// the item without failing the fetch.
type Normalizer[T any] func(item *gofeed.Item, now time.Time) (domain.Record[T], bool)

// Adapter fetches and normalizes one feed. Implements source.Adapter[T].
type Adapter[T any] struct {
	name      string
	feedURL   string
	parser    *gofeed.Parser
	normalize Normalizer[T]
	maxAge    time.Duration
}

// New creates a feed adapter with its own bounded HTTP client.
func New[T any](name, feedURL string, timeout time.Duration, normalize Normalizer[T]) *Adapter[T] {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Adapter[T]{
		name:      name,
		feedURL:   feedURL,
		parser:    parser,
		normalize: normalize,
		maxAge:    defaultMaxAge,
	}
}

func (a *Adapter[T]) Name() string { return a.name }

// Fetch parses the feed and normalizes its items. The query is ignored:
// feeds are statewide sources.
func (a *Adapter[T]) Fetch(ctx context.Context, _ source.Query) ([]domain.Record[T], error) {
	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", a.name, err)
	}

	now := time.Now()
	cutoff := now.Add(-a.maxAge)
	records := make([]domain.Record[T], 0, len(feed.Items))
	for _, item := range feed.Items {
		if pub := itemTime(item, now); pub.Before(cutoff) {
			continue
		}
		rec, ok := a.normalize(item, now)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// itemTime picks the best available item timestamp, falling back to now for
// feeds that omit publication dates.
func itemTime(item *gofeed.Item, now time.Time) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed
	}
	return now
}

// StripHTML removes markup from feed descriptions and collapses whitespace.
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate shortens s to at most n runes, ellipsized.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

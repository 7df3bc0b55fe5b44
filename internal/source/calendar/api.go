// Package calendar implements the community-event source adapters: a JSON
// listing API client and an HTML calendar scraper, registered as primary and
// backup sources for the events domain.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// APIAdapter fetches listings from the events JSON API.
type APIAdapter struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// NewAPIAdapter creates the adapter against the configured API base URL.
func NewAPIAdapter(baseURL string, timeout time.Duration, logger *slog.Logger) *APIAdapter {
	return &APIAdapter{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
		logger:  logger,
	}
}

func (a *APIAdapter) Name() string { return "events-api" }

func (a *APIAdapter) Fetch(ctx context.Context, q source.Query) ([]domain.Record[domain.EventListing], error) {
	var out listingResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"island": string(q.Island),
			"limit":  "50",
		}).
		SetResult(&out).
		Get(a.baseURL + "/events")
	if err != nil {
		return nil, fmt.Errorf("events api request: %w", err)
	}
	if resp.IsError() {
		return nil, source.NewError(source.KindHTTP, a.Name(),
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	records := make([]domain.Record[domain.EventListing], 0, len(out.Events))
	for _, ev := range out.Events {
		rec, ok := normalizeAPIEvent(ev, q.Island, a.Name())
		if !ok {
			a.logger.Debug("skipping unusable event listing", "title", ev.Title)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeAPIEvent tolerates missing optional fields; title and start time
// are the only hard requirements since the identity key needs them.
func normalizeAPIEvent(ev apiEvent, island domain.Island, sourceName string) (domain.Record[domain.EventListing], bool) {
	if ev.Title == "" || ev.Start == "" {
		return domain.Record[domain.EventListing]{}, false
	}
	start, err := time.Parse(time.RFC3339, ev.Start)
	if err != nil {
		return domain.Record[domain.EventListing]{}, false
	}

	var end time.Time
	if ev.End != "" {
		if parsed, err := time.Parse(time.RFC3339, ev.End); err == nil {
			end = parsed
		}
	}
	venue := ev.Venue
	if venue == "" {
		venue = domain.DefaultVenue
	}

	return domain.Record[domain.EventListing]{
		IdentityKey: domain.EventIdentity(ev.Title, start, venue),
		SourceName:  sourceName,
		Timestamp:   start,
		Payload: domain.EventListing{
			Title:     ev.Title,
			Venue:     venue,
			Island:    island,
			StartTime: start,
			EndTime:   end,
			Free:      ev.Free || ev.Price == 0,
			URL:       ev.URL,
		},
	}, true
}

// Events API wire types.

type listingResponse struct {
	Events []apiEvent `json:"events"`
}

type apiEvent struct {
	Title string  `json:"title"`
	Venue string  `json:"venue"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Price float64 `json:"price"`
	Free  bool    `json:"free"`
	URL   string  `json:"url"`
}

package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// scrapeDateLayout matches the calendar page's rendered date format.
const scrapeDateLayout = "Jan 2, 2006 3:04 PM"

// hawaiiTime is the zone the calendar page renders dates in. Hawaii does not
// observe daylight saving, so a fixed offset is exact year-round. Parsing in
// this zone keeps scraper identity keys aligned with the listing API, whose
// RFC3339 starts carry the -10:00 offset.
var hawaiiTime = time.FixedZone("HST", -10*60*60)

// ScraperAdapter scrapes the community calendar page, the backup events
// source when the listing API is down or unconfigured.
type ScraperAdapter struct {
	http    *http.Client
	pageURL string
	logger  *slog.Logger
}

// NewScraperAdapter creates the adapter for one calendar page URL.
func NewScraperAdapter(pageURL string, timeout time.Duration, logger *slog.Logger) *ScraperAdapter {
	return &ScraperAdapter{
		http:    &http.Client{Timeout: timeout},
		pageURL: pageURL,
		logger:  logger,
	}
}

func (a *ScraperAdapter) Name() string { return "events-scraper" }

func (a *ScraperAdapter) Fetch(ctx context.Context, q source.Query) ([]domain.Record[domain.EventListing], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, source.NewError(source.KindHTTP, a.Name(),
			fmt.Errorf("status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, source.NewError(source.KindDecode, a.Name(), fmt.Errorf("parse page: %w", err))
	}

	var records []domain.Record[domain.EventListing]
	doc.Find("article.event-card").Each(func(_ int, sel *goquery.Selection) {
		rec, ok := a.normalizeCard(sel, q.Island)
		if !ok {
			return
		}
		records = append(records, rec)
	})
	return records, nil
}

func (a *ScraperAdapter) normalizeCard(sel *goquery.Selection, island domain.Island) (domain.Record[domain.EventListing], bool) {
	title := strings.TrimSpace(sel.Find(".event-title").Text())
	dateText := strings.TrimSpace(sel.Find(".event-date").Text())
	if title == "" || dateText == "" {
		return domain.Record[domain.EventListing]{}, false
	}

	start, err := time.ParseInLocation(scrapeDateLayout, dateText, hawaiiTime)
	if err != nil {
		a.logger.Debug("unparseable event date", "title", title, "date", dateText)
		return domain.Record[domain.EventListing]{}, false
	}

	venue := strings.TrimSpace(sel.Find(".event-venue").Text())
	if venue == "" {
		venue = domain.DefaultVenue
	}
	admission := strings.ToLower(strings.TrimSpace(sel.Find(".event-admission").Text()))
	url, _ := sel.Find("a.event-link").Attr("href")

	return domain.Record[domain.EventListing]{
		IdentityKey: domain.EventIdentity(title, start, venue),
		SourceName:  a.Name(),
		Timestamp:   start,
		Payload: domain.EventListing{
			Title:     title,
			Venue:     venue,
			Island:    island,
			StartTime: start,
			Free:      strings.Contains(admission, "free"),
			URL:       url,
		},
	}, true
}

package rss

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mokulua/kilo-data-service/internal/domain"
)

// NewOutageAdapter builds the feed adapter for the utility's outage notice
// feed. Notices are titled like "Scheduled outage - Kailua-Kona area".
func NewOutageAdapter(name, feedURL string, timeout time.Duration) *Adapter[domain.OutageNotice] {
	return New(name, feedURL, timeout, normalizeOutage)
}

func normalizeOutage(item *gofeed.Item, now time.Time) (domain.Record[domain.OutageNotice], bool) {
	if item.Title == "" {
		return domain.Record[domain.OutageNotice]{}, false
	}

	pub := itemTime(item, now)
	status, region := splitNoticeTitle(item.Title)
	island, _ := domain.IslandFromText(item.Title + " " + item.Description)

	return domain.Record[domain.OutageNotice]{
		IdentityKey: domain.OutageIdentity(region, pub),
		SourceName:  "outage-feed",
		Timestamp:   pub,
		Payload: domain.OutageNotice{
			Region:      region,
			Island:      island,
			Status:      status,
			Detail:      Truncate(StripHTML(item.Description), summaryLimit),
			PublishedAt: pub,
		},
	}, true
}

// splitNoticeTitle separates "Scheduled outage - Kailua-Kona area" into a
// status and a region. Titles without the separator become active notices
// for the whole title text.
func splitNoticeTitle(title string) (status, region string) {
	head, tail, ok := strings.Cut(title, " - ")
	if !ok {
		return "active", strings.TrimSpace(title)
	}
	switch {
	case strings.Contains(strings.ToLower(head), "scheduled"):
		status = "scheduled"
	case strings.Contains(strings.ToLower(head), "restored"):
		status = "restored"
	default:
		status = "active"
	}
	return status, strings.TrimSpace(tail)
}

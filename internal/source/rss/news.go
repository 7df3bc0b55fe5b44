package rss

import (
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mokulua/kilo-data-service/internal/domain"
)

const summaryLimit = 300

// NewNewsAdapter builds the feed adapter for one news outlet.
func NewNewsAdapter(name, feedURL string, timeout time.Duration) *Adapter[domain.NewsArticle] {
	return New(name, feedURL, timeout, newsNormalizer(name))
}

func newsNormalizer(outlet string) Normalizer[domain.NewsArticle] {
	return func(item *gofeed.Item, now time.Time) (domain.Record[domain.NewsArticle], bool) {
		if item.Title == "" || item.Link == "" {
			return domain.Record[domain.NewsArticle]{}, false
		}

		pub := itemTime(item, now)
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		summary = Truncate(StripHTML(summary), summaryLimit)

		return domain.Record[domain.NewsArticle]{
			IdentityKey: domain.ArticleIdentity(item.Link),
			SourceName:  outlet,
			Timestamp:   pub,
			Payload: domain.NewsArticle{
				Title:       item.Title,
				URL:         item.Link,
				Outlet:      outlet,
				Summary:     summary,
				PublishedAt: pub,
			},
		}, true
	}
}

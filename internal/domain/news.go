package domain

import (
	"net/url"
	"strings"
	"time"
)

// NewsArticle is the normalized article record across all feed sources.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Outlet      string    `json:"outlet"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// ArticleIdentity keys an article by its canonical URL, so the same story
// syndicated through two feeds deduplicates.
func ArticleIdentity(rawURL string) string {
	return IdentityHash("news", CanonicalURL(rawURL))
}

// CanonicalURL normalizes an article link for identity purposes: lowercased
// scheme and host, tracking query string and fragment stripped, trailing
// slash trimmed. Unparseable input is returned as-is so the record still
// gets a stable (if less collision-friendly) key.
func CanonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(rawURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

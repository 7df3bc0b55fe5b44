package domain

import "time"

// OutageNotice is a normalized utility power-outage notice.
type OutageNotice struct {
	Region      string    `json:"region"`
	Island      Island    `json:"island,omitempty"` // empty when the notice names no island
	Status      string    `json:"status"`           // "active", "scheduled", "restored"
	Detail      string    `json:"detail"`
	PublishedAt time.Time `json:"published_at"`
}

// OutageIdentity keys a notice by region and publication day, so status
// updates to the same outage replace rather than duplicate it.
func OutageIdentity(region string, publishedAt time.Time) string {
	return IdentityHash("outage", region, publishedAt.UTC().Format("2006-01-02"))
}

package domain

import "time"

// DefaultVenue is substituted when an event listing omits its venue.
const DefaultVenue = "TBA"

// EventListing is the normalized community-event record.
type EventListing struct {
	Title     string    `json:"title"`
	Venue     string    `json:"venue"`
	Island    Island    `json:"island"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitzero"`
	Free      bool      `json:"free"`
	URL       string    `json:"url,omitempty"`
}

// EventIdentity keys a listing by title, start time, and venue: the stable
// fields two listing sources agree on when they carry the same event.
func EventIdentity(title string, start time.Time, venue string) string {
	return IdentityHash("event", title, start.UTC().Format(time.RFC3339), venue)
}

// Package domain models the normalized data types served by the Kilo
// dashboard backend: weather, surf, news, events, power outages, and the
// box-jellyfish forecast for the Hawaiian islands.
//
// # Identity Keys
//
// Every record carries a deterministic identity key derived only from
// source-stable fields, so the same real-world item normalizes to the same
// key across fetch cycles and across different upstream sources reporting it:
//
//	Weather:   weather|<island>|<UTC hour bucket>
//	Surf:      surf|<spot>|<UTC hour bucket>
//	News:      news|<canonical URL>          (query string and fragment stripped)
//	Events:    event|<title>|<start>|<venue>
//	Outages:   outage|<region>|<published day>
//	Jellyfish: jellyfish|<island>|<window start date>
//
// Keys are SHA-256 hashes of the joined fields, truncated to 128 bits.
// Volatile inputs (fetch timestamps, scores) are never part of a key.
// See [IdentityHash].
//
// # Defaults for Missing Fields
//
// Upstream payloads routinely omit fields. Normalization substitutes
// domain-appropriate defaults rather than dropping the record:
//
//	Wind direction: "NE" (the prevailing trade winds)
//	Humidity:       70% (typical coastal Hawaii)
//	Event venue:    "TBA"
//
// # Surf Quality Scale
//
// Quality labels are derived from face height (feet) and dominant swell
// period (seconds), a project-specific simplification for ranking spots:
//
//	face < 1 ft                 flat
//	period < 8 s                poor (wind chop)
//	face < 4 ft                 fair
//	face < 8 ft or period < 12  good
//	otherwise                   epic
//
// # Box Jellyfish Arrival
//
// Box jellyfish reliably reach Oahu's leeward and south shores 8 to 10 days
// after each full moon. The forecast is computed from a reference full-moon
// epoch and the mean synodic month (29.530588 days) rather than fetched from
// an upstream source. See [JellyfishOutlook].
package domain

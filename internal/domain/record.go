package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Record wraps one normalized payload produced by a source adapter.
// IdentityKey deduplicates the same real-world item across sources,
// Score ranks it after merging, and Timestamp breaks score ties
// (more recent wins).
type Record[T any] struct {
	IdentityKey string    `json:"identity_key"`
	SourceName  string    `json:"source_name"`
	Score       float64   `json:"score"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     T         `json:"payload"`
}

// IdentityHash derives a deterministic identity key from stable fields.
// Inputs are joined with "|" and hashed; the hash is truncated to 128 bits,
// which is plenty for a keyed domain of this size.
func IdentityHash(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:16])
}

// hourBucket formats a time as its containing UTC hour, the granularity used
// by identity keys for periodic observations (weather, surf).
func hourBucket(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format("2006-01-02T15")
}

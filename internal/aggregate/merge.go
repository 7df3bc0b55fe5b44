package aggregate

import (
	"slices"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// Merge combines settled fan-out results into one ranked record list.
// Results must be in adapter priority order: records are flattened in that
// order and deduplicated by identity key, first seen wins, so the
// higher-priority source's version of a duplicate survives. Survivors are
// scored by the policy, then ordered score descending, recency descending,
// priority order as the final stable tie-break.
//
// When every result failed or carried no records, Merge returns an empty
// list; the caller decides fallback behavior.
func Merge[T any](results []source.Result[T], policy Policy[T]) []domain.Record[T] {
	seen := make(map[string]struct{})
	var merged []domain.Record[T]

	for _, res := range results {
		if !res.OK() {
			continue
		}
		for _, rec := range res.Records {
			if _, dup := seen[rec.IdentityKey]; dup {
				continue
			}
			seen[rec.IdentityKey] = struct{}{}
			rec.Score = policy.Score(rec.Payload)
			merged = append(merged, rec)
		}
	}

	slices.SortStableFunc(merged, func(a, b domain.Record[T]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.Timestamp.After(b.Timestamp):
			return -1
		case b.Timestamp.After(a.Timestamp):
			return 1
		}
		return 0
	})
	return merged
}

package aggregate

import "strings"

// Rule contributes points to a record's score. Hits returns how many times
// the rule matches the payload (0 or 1 for predicates, the match count for
// keyword rules); the contribution is Points * Hits. Rules must be pure
// functions of the payload so scoring stays deterministic.
type Rule[T any] struct {
	Name   string
	Points float64
	Hits   func(payload T) int
}

// Policy is the replaceable scoring table for one domain. The weights wired
// at startup are defaults, not contract.
type Policy[T any] []Rule[T]

// Score sums the rule contributions for one payload.
func (p Policy[T]) Score(payload T) float64 {
	var total float64
	for _, r := range p {
		total += r.Points * float64(r.Hits(payload))
	}
	return total
}

// When builds a rule that awards points once when the predicate matches.
func When[T any](name string, points float64, match func(T) bool) Rule[T] {
	return Rule[T]{
		Name:   name,
		Points: points,
		Hits: func(payload T) int {
			if match(payload) {
				return 1
			}
			return 0
		},
	}
}

// Keywords builds a rule that awards points per matched keyword in the text
// extracted from the payload. Matching is a case-insensitive substring test.
func Keywords[T any](name string, points float64, keywords []string, text func(T) string) Rule[T] {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return Rule[T]{
		Name:   name,
		Points: points,
		Hits: func(payload T) int {
			haystack := strings.ToLower(text(payload))
			hits := 0
			for _, kw := range lowered {
				if strings.Contains(haystack, kw) {
					hits++
				}
			}
			return hits
		},
	}
}

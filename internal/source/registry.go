package source

import "sort"

type registration[T any] struct {
	adapter  Adapter[T]
	priority int
	enabled  bool
}

// Registry holds the configured adapter set for one domain. Registration is
// configuration-time wiring; the registry is read-only afterwards, so no
// locking is needed.
type Registry[T any] struct {
	entries []registration[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Register adds an adapter. Lower priority values win dedup conflicts:
// the primary source registers with priority 1, backups with higher values.
func (r *Registry[T]) Register(a Adapter[T], priority int, enabled bool) {
	r.entries = append(r.entries, registration[T]{adapter: a, priority: priority, enabled: enabled})
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].priority < r.entries[j].priority
	})
}

// Enabled returns the enabled adapters in ascending priority order.
func (r *Registry[T]) Enabled() []Adapter[T] {
	var adapters []Adapter[T]
	for _, e := range r.entries {
		if e.enabled {
			adapters = append(adapters, e.adapter)
		}
	}
	return adapters
}

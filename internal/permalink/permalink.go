// Package permalink derives date-based URL paths for migrated posts.
package permalink

import (
	"fmt"
	"time"
)

// Registry allocates collision-free permalinks among posts sharing a
// publication date. Counters live for a single run and are never persisted:
// the numbering is deterministic as long as the caller feeds posts in
// non-decreasing timestamp order, which the migration driver guarantees.
type Registry struct {
	counters map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]int)}
}

// Allocate returns the permalink path for a post published at t, in the form
// /YYYY/MM/DD/<n>/ where n counts allocations on that UTC calendar date
// starting at 1.
func (r *Registry) Allocate(t time.Time) string {
	day := t.UTC().Format("2006/01/02")
	r.counters[day]++
	return fmt.Sprintf("/%s/%d/", day, r.counters[day])
}

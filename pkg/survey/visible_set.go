package survey

import (
	"sort"
	"sync"
)

// VisibleSet is a grow-only set of object ids, safe for concurrent use
type VisibleSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewVisibleSet creates an empty set
func NewVisibleSet() *VisibleSet {
	return &VisibleSet{ids: make(map[string]struct{})}
}

// Add inserts id. Adding an id twice is a no-op; it reports whether id was new.
func (vs *VisibleSet) Add(id string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if _, ok := vs.ids[id]; ok {
		return false
	}
	vs.ids[id] = struct{}{}
	return true
}

// Contains reports whether id has been marked visible
func (vs *VisibleSet) Contains(id string) bool {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	_, ok := vs.ids[id]
	return ok
}

// Len returns the number of visible ids
func (vs *VisibleSet) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.ids)
}

// IDs returns the visible ids in sorted order
func (vs *VisibleSet) IDs() []string {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	ids := make([]string, 0, len(vs.ids))
	for id := range vs.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsSupersetOf reports whether every id in other is also in vs
func (vs *VisibleSet) IsSupersetOf(other *VisibleSet) bool {
	for _, id := range other.IDs() {
		if !vs.Contains(id) {
			return false
		}
	}
	return true
}

package catalog

import (
	"sync"
	"time"
)

// Index holds the live catalog snapshot.
// Reloads replace the snapshot wholesale; readers always see a complete one.
type Index struct {
	mu         sync.RWMutex
	snapshot   *Snapshot
	lastReload time.Time
	reloads    int
}

// NewIndex creates an index holding an empty snapshot for currentYear
func NewIndex(currentYear int) *Index {
	return &Index{
		snapshot: NewSnapshot(currentYear, nil),
	}
}

// Replace swaps in a new snapshot
func (idx *Index) Replace(s *Snapshot) {
	if s == nil {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.snapshot = s
	idx.lastReload = time.Now()
	idx.reloads++
}

// Snapshot returns the current snapshot
func (idx *Index) Snapshot() *Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.snapshot
}

// Count returns the number of courses in the current snapshot
func (idx *Index) Count() int {
	return idx.Snapshot().Len()
}

// Loaded reports whether at least one reload has succeeded
func (idx *Index) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.reloads > 0
}

// LastReload returns the timestamp of the last successful reload
func (idx *Index) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

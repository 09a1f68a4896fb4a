package search

import (
	"sync"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// Key identifies one derivation: snapshot identity, query, filters and compatibility revision.
type Key struct {
	SnapshotVersion uint64
	Query           string
	Filters         FilterSet
	CompatRevision  uint64
}

// Memo remembers the last derivation and recomputes only when its key changes.
type Memo struct {
	mu      sync.Mutex
	key     Key
	valid   bool
	results []Result
	hits    uint64
}

// Filter returns the memoized result for key, recomputing on a miss.
func (m *Memo) Filter(key Key, pets []domain.Pet, compat CompatibilityMap) []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.key == key {
		m.hits++
		return cloneResults(m.results)
	}
	m.results = Filter(pets, key.Query, key.Filters, compat)
	m.key = key
	m.valid = true
	return cloneResults(m.results)
}

// Hits reports how many lookups were answered without recomputation.
func (m *Memo) Hits() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Reset drops the remembered result.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.results = nil
}

// Callers own what they get back; the remembered results stay untouched.
func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{Pet: r.Pet.Clone()}
		if r.Score != nil {
			score := *r.Score
			out[i].Score = &score
		}
	}
	return out
}

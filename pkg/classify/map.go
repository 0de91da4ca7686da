package classify

import (
	"iter"
	"slices"
	"sync"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Map is the classification map: one append-only bucket of graphs per key,
// each in first-encountered order. The zero value is an empty map ready to
// use. A Map is safe for concurrent use and must not be copied after first
// use.
type Map struct {
	mu      sync.RWMutex
	buckets map[Key][]*graph.Graph
	total   int
}

// NewMap returns an empty map.
func NewMap() *Map { return &Map{} }

// Append adds g to the end of k's bucket, creating the bucket if needed.
func (m *Map) Append(k Key, g *graph.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets == nil {
		m.buckets = make(map[Key][]*graph.Graph)
	}
	m.buckets[k] = append(m.buckets[k], g)
	m.total++
}

// Bucket returns a copy of k's bucket, or nil if it does not exist.
func (m *Map) Bucket(k Key) []*graph.Graph {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.buckets[k])
}

// Keys returns the keys of non-empty buckets in ascending order, NoMatch
// last.
func (m *Map) Keys() []Key {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]Key, 0, len(m.buckets))
	for k := range m.buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// All iterates buckets in key order. Each bucket is a copy taken when it is
// reached.
func (m *Map) All() iter.Seq2[Key, []*graph.Graph] {
	return func(yield func(Key, []*graph.Graph) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.Bucket(k)) {
				return
			}
		}
	}
}

// Len returns the number of buckets.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets)
}

// Total returns the number of graphs across all buckets.
func (m *Map) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Merge appends every bucket of o to the matching bucket of m, preserving
// order within each bucket.
func (m *Map) Merge(o *Map) {
	if o == m {
		return
	}
	for k, graphs := range o.All() {
		for _, g := range graphs {
			m.Append(k, g)
		}
	}
}

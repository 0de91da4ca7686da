package graph

import (
	"iter"
	"math/bits"
)

// VertexSet is a bitset over vertex positions.
// Sets produced by a Graph must not be modified by callers.
type VertexSet []uint64

// NewVertexSet returns an empty set able to hold positions 0..n-1.
func NewVertexSet(n int) VertexSet {
	return make(VertexSet, (n+63)/64)
}

// Has reports whether i is in the set.
func (s VertexSet) Has(i int) bool {
	w := i >> 6
	return w < len(s) && s[w]&(1<<(uint(i)&63)) != 0
}

// Add inserts i. The set must have been sized to hold i.
func (s VertexSet) Add(i int) { s[i>>6] |= 1 << (uint(i) & 63) }

// Remove deletes i.
func (s VertexSet) Remove(i int) {
	if w := i >> 6; w < len(s) {
		s[w] &^= 1 << (uint(i) & 63)
	}
}

// Count returns the number of elements.
func (s VertexSet) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether the set has no elements.
func (s VertexSet) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s VertexSet) Clone() VertexSet {
	c := make(VertexSet, len(s))
	copy(c, s)
	return c
}

// And returns s ∩ o as a new set.
func (s VertexSet) And(o VertexSet) VertexSet {
	c := make(VertexSet, len(s))
	for i := range c {
		if i < len(o) {
			c[i] = s[i] & o[i]
		}
	}
	return c
}

// AndNot returns s \ o as a new set.
func (s VertexSet) AndNot(o VertexSet) VertexSet {
	c := s.Clone()
	for i := range c {
		if i < len(o) {
			c[i] &^= o[i]
		}
	}
	return c
}

// Or returns s ∪ o as a new set sized to the larger operand.
func (s VertexSet) Or(o VertexSet) VertexSet {
	a, b := s, o
	if len(b) > len(a) {
		a, b = b, a
	}
	c := a.Clone()
	for i := range b {
		c[i] |= b[i]
	}
	return c
}

// Intersects reports whether s and o share an element.
func (s VertexSet) Intersects(o VertexSet) bool {
	for i := 0; i < len(s) && i < len(o); i++ {
		if s[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// IntersectionCount returns |s ∩ o| without allocating.
func (s VertexSet) IntersectionCount(o VertexSet) int {
	n := 0
	for i := 0; i < len(s) && i < len(o); i++ {
		n += bits.OnesCount64(s[i] & o[i])
	}
	return n
}

// All iterates the elements in ascending order.
func (s VertexSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for w, word := range s {
			for word != 0 {
				b := bits.TrailingZeros64(word)
				if !yield(w<<6 | b) {
					return
				}
				word &= word - 1
			}
		}
	}
}

// Slice returns the elements in ascending order.
func (s VertexSet) Slice() []int {
	out := make([]int, 0, s.Count())
	for i := range s.All() {
		out = append(out, i)
	}
	return out
}

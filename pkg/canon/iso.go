package canon

import (
	"slices"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Isomorphic reports whether a and b are isomorphic. Order, size and degree
// multiset are compared first; canonical forms are only computed when those
// agree.
func Isomorphic(a, b *graph.Graph) bool {
	if a.Order() != b.Order() || a.Size() != b.Size() {
		return false
	}
	if !slices.Equal(DegreeSequence(a), DegreeSequence(b)) {
		return false
	}
	return Canonical(a).Equal(Canonical(b))
}

// DegreeSequence returns the vertex degrees of g in ascending order.
func DegreeSequence(g *graph.Graph) []int {
	d := g.Degrees()
	slices.Sort(d)
	return d
}

// Checker is the default isomorphism oracle. The zero value is ready to use
// and safe for concurrent use.
type Checker struct{}

// Isomorphic implements the oracle contract with [Isomorphic].
func (Checker) Isomorphic(a, b *graph.Graph) bool { return Isomorphic(a, b) }

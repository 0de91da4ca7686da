package canon

import (
	"iter"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// ExhaustiveLimit is the largest order the exhaustive functions accept.
// 10! permutations is the practical ceiling.
const ExhaustiveLimit = 10

// Factorial returns n! for n >= 0. For n <= 1 it returns 1.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Permutations yields every permutation of [0, 1, ..., n-1] using Heap's
// algorithm. The yielded slice is reused between iterations; clone it to
// keep it.
//
// n = 0 yields one empty permutation.
func Permutations(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		if !yield(perm) {
			return
		}
		state := make([]int, n)
		for i := 0; i < n; {
			if state[i] < i {
				if i&1 == 0 {
					perm[0], perm[i] = perm[i], perm[0]
				} else {
					perm[state[i]], perm[i] = perm[i], perm[state[i]]
				}
				if !yield(perm) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}

// ExhaustiveIsomorphic decides isomorphism by trying every bijection.
// ok is false when the graphs exceed [ExhaustiveLimit].
func ExhaustiveIsomorphic(a, b *graph.Graph) (iso, ok bool) {
	n := a.Order()
	if n != b.Order() || a.Size() != b.Size() {
		return false, true
	}
	if n > ExhaustiveLimit {
		return false, false
	}
	edges := a.Edges()
	for p := range Permutations(n) {
		if preserves(edges, b, p) {
			return true, true
		}
	}
	return false, true
}

// ExhaustiveAutomorphisms counts automorphisms by trying every permutation.
// ok is false when g exceeds [ExhaustiveLimit].
func ExhaustiveAutomorphisms(g *graph.Graph) (count int, ok bool) {
	if g.Order() > ExhaustiveLimit {
		return 0, false
	}
	edges := g.Edges()
	for p := range Permutations(g.Order()) {
		if preserves(edges, g, p) {
			count++
		}
	}
	return count, true
}

// ExhaustiveOrbits returns, for each vertex, the smallest vertex it can be
// mapped to by an automorphism. ok is false when g exceeds [ExhaustiveLimit].
func ExhaustiveOrbits(g *graph.Graph) ([]int, bool) {
	n := g.Order()
	if n > ExhaustiveLimit {
		return nil, false
	}
	orbits := make([]int, n)
	for v := range orbits {
		orbits[v] = v
	}
	edges := g.Edges()
	for p := range Permutations(n) {
		if !preserves(edges, g, p) {
			continue
		}
		for v, w := range p {
			orbits[w] = min(orbits[w], v)
		}
	}
	return orbits, true
}

// preserves reports whether mapping vertex i to vertex p[i] of b sends every
// edge to an edge of b. With equal sizes this makes p an isomorphism.
func preserves(edges [][2]int, b *graph.Graph, p []int) bool {
	for _, e := range edges {
		if !b.Adjacent(p[e[0]], p[e[1]]) {
			return false
		}
	}
	return true
}

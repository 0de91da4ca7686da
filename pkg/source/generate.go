package source

import (
	"iter"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Generator enumerates graphs up to isomorphism by canonical augmentation.
//
// Graphs of order k+1 are grown from graphs of order k by adding a vertex v
// joined to a subset of the existing vertices. The child is kept only when v
// is the canonical deletion vertex: it has maximum degree and is in the
// automorphism orbit of the maximum-degree vertex with the highest canonical
// position. Every isomorphism class then has exactly one accepted parent,
// and children of a single parent are deduplicated by canonical form.
//
// The zero value generates all graphs.
type Generator struct {
	// Connected restricts the output to connected graphs. Intermediate
	// orders still include disconnected graphs.
	Connected bool
}

// All yields every graph of order n exactly once up to isomorphism. Vertices
// are labelled 0..n-1. n <= 0 yields the null graph only.
func (gen Generator) All(n int) iter.Seq[*graph.Graph] {
	return func(yield func(*graph.Graph) bool) {
		gen.grow(&graph.Graph{}, max(n, 0), false, yield)
	}
}

// UpTo yields every graph of order 0..n exactly once up to isomorphism, in
// depth-first order of the augmentation tree.
func (gen Generator) UpTo(n int) iter.Seq[*graph.Graph] {
	return func(yield func(*graph.Graph) bool) {
		gen.grow(&graph.Graph{}, max(n, 0), true, yield)
	}
}

// Count returns the number of graphs [Generator.All] yields for n.
func (gen Generator) Count(n int) int {
	c := 0
	for range gen.All(n) {
		c++
	}
	return c
}

func (gen Generator) grow(g *graph.Graph, n int, every bool, yield func(*graph.Graph) bool) bool {
	if every || g.Order() == n {
		if !gen.Connected || g.IsConnected() {
			if !yield(g) {
				return false
			}
		}
	}
	if g.Order() == n {
		return true
	}

	k := g.Order()
	degrees := g.Degrees()
	seen := make(map[string]struct{})
	for mask := range 1 << k {
		if !canonicalDegree(degrees, mask) {
			continue
		}
		child := extend(g, mask)
		f := canon.Canonical(child)
		if !canonicalDeletion(child, f, k) {
			continue
		}
		key := f.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if !gen.grow(child, n, every, yield) {
			return false
		}
	}
	return true
}

// canonicalDegree reports whether the new vertex joined to mask has maximum
// degree in the child. It rejects most candidates before any canonical form
// is computed.
func canonicalDegree(degrees []int, mask int) bool {
	d := 0
	for i := range degrees {
		if mask&(1<<i) != 0 {
			d++
		}
	}
	for i, di := range degrees {
		if mask&(1<<i) != 0 {
			di++
		}
		if di > d {
			return false
		}
	}
	return true
}

// canonicalDeletion reports whether v is in the orbit of the maximum-degree
// vertex that comes last in the canonical labeling.
func canonicalDeletion(g *graph.Graph, f canon.Form, v int) bool {
	degrees := g.Degrees()
	top := 0
	for _, d := range degrees {
		top = max(top, d)
	}
	lab := f.Labeling()
	for p := len(lab) - 1; p >= 0; p-- {
		if u := lab[p]; degrees[u] == top {
			return f.SameOrbit(u, v)
		}
	}
	return false
}

// extend returns g plus a vertex at position Order() adjacent to the
// positions set in mask.
func extend(g *graph.Graph, mask int) *graph.Graph {
	k := g.Order()
	adj := make([]graph.VertexSet, k+1)
	adj[k] = graph.NewVertexSet(k + 1)
	for i := range k {
		adj[i] = graph.NewVertexSet(k + 1)
		for j := range g.Neighbors(i).All() {
			adj[i].Add(j)
		}
		if mask&(1<<i) != 0 {
			adj[i].Add(k)
			adj[k].Add(i)
		}
	}
	child, err := graph.FromAdjacency(adj)
	if err != nil {
		panic(err)
	}
	return child
}

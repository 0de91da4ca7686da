package clique

import (
	"slices"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Unbounded disables the early-exit bound.
const Unbounded = 0

// MaximalCliques returns the maximal cliques of g as ascending position
// slices, sorted lexicographically. If bound > 0 and g has more than bound
// maximal cliques, it returns ok=false and no cliques.
//
// The null graph has no maximal cliques.
func MaximalCliques(g *graph.Graph, bound int) (cliques [][]int, ok bool) {
	n := g.Order()
	if n == 0 {
		return nil, true
	}
	e := enumerator{g: g, bound: bound}
	if !e.expand(make([]int, 0, n), g.All(), graph.NewVertexSet(n)) {
		return nil, false
	}
	for _, c := range e.cliques {
		slices.Sort(c)
	}
	slices.SortFunc(e.cliques, slices.Compare)
	return e.cliques, true
}

type enumerator struct {
	g       *graph.Graph
	bound   int
	cliques [][]int
}

// expand reports false once the bound is exceeded.
func (e *enumerator) expand(r []int, p, x graph.VertexSet) bool {
	if p.Empty() {
		if !x.Empty() {
			return true
		}
		if e.bound > 0 && len(e.cliques) == e.bound {
			return false
		}
		e.cliques = append(e.cliques, slices.Clone(r))
		return true
	}

	pivot, best := -1, -1
	for u := range p.Or(x).All() {
		if c := p.IntersectionCount(e.g.Neighbors(u)); c > best {
			pivot, best = u, c
		}
	}

	for v := range p.AndNot(e.g.Neighbors(pivot)).All() {
		nv := e.g.Neighbors(v)
		if !e.expand(append(r, v), p.And(nv), x.And(nv)) {
			return false
		}
		p.Remove(v)
		x.Add(v)
	}
	return true
}

// CliqueGraph returns the clique graph of g. Vertex i of the result
// corresponds to the i-th clique returned by [MaximalCliques]. ok=false means
// the bound was exceeded and no graph was built.
func CliqueGraph(g *graph.Graph, bound int) (*graph.Graph, bool) {
	cliques, ok := MaximalCliques(g, bound)
	if !ok {
		return nil, false
	}
	return FromCliques(g.Order(), cliques), true
}

// FromCliques builds the intersection graph of the given vertex sets of a
// graph with n vertices.
func FromCliques(n int, cliques [][]int) *graph.Graph {
	sets := make([]graph.VertexSet, len(cliques))
	for i, c := range cliques {
		sets[i] = graph.NewVertexSet(n)
		for _, v := range c {
			sets[i].Add(v)
		}
	}
	var edges [][2]int
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if sets[i].Intersects(sets[j]) {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return graph.MustNew(len(cliques), edges)
}

// Oracle is the default clique-graph oracle used by the criticality tester.
type Oracle struct{}

// CliqueGraph implements the oracle contract: exact when bound is 0,
// otherwise indeterminate (ok=false) once more than bound cliques exist.
func (Oracle) CliqueGraph(g *graph.Graph, bound int) (*graph.Graph, bool) {
	return CliqueGraph(g, bound)
}

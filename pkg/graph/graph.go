package graph

import (
	"errors"
	"slices"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

var (
	// ErrNilGraph is returned when an operation that requires a graph receives nil.
	ErrNilGraph = errors.New("graph is nil")

	// ErrDuplicateVertex is returned by [Builder.AddVertex] when the label is
	// already present.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrSelfLoop is returned by [Builder.AddEdge] when both endpoints are the
	// same vertex. Simple graphs have no loops.
	ErrSelfLoop = errors.New("self-loop")

	// ErrParallelEdge is returned by [Builder.AddEdge] when the edge already
	// exists. Simple graphs have at most one edge per vertex pair.
	ErrParallelEdge = errors.New("parallel edge")

	// ErrUnknownVertex is returned when a vertex label is not in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Graph is an immutable finite simple graph.
//
// The zero value is the null graph (no vertices). Non-empty graphs are built
// with [Builder] or one of the constructors ([New], [Complete], ...).
// Graph is safe for concurrent reads.
type Graph struct {
	ids  []int64       // position -> label
	pos  map[int64]int // label -> position
	adj  []VertexSet   // position -> neighbor positions
	size int
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.ids) }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.size }

// IDs returns the vertex labels in position order.
func (g *Graph) IDs() []int64 { return slices.Clone(g.ids) }

// ID returns the label of the vertex at position i.
func (g *Graph) ID(i int) int64 { return g.ids[i] }

// Index returns the position of the vertex labelled id.
func (g *Graph) Index(id int64) (int, bool) {
	i, ok := g.pos[id]
	return i, ok
}

// Adjacent reports whether positions i and j are joined by an edge.
func (g *Graph) Adjacent(i, j int) bool { return g.adj[i].Has(j) }

// Neighbors returns the neighbor positions of i. The set must not be modified.
func (g *Graph) Neighbors(i int) VertexSet { return g.adj[i] }

// Degree returns the number of neighbors of position i.
func (g *Graph) Degree(i int) int { return g.adj[i].Count() }

// Degrees returns the degree of every vertex in position order.
func (g *Graph) Degrees() []int {
	d := make([]int, len(g.adj))
	for i, s := range g.adj {
		d[i] = s.Count()
	}
	return d
}

// Edges returns every edge once as a pair of positions (i < j), sorted.
func (g *Graph) Edges() [][2]int {
	out := make([][2]int, 0, g.size)
	for i, s := range g.adj {
		for j := range s.All() {
			if j > i {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// All returns the full vertex set of g.
func (g *Graph) All() VertexSet {
	s := NewVertexSet(len(g.ids))
	for i := range g.ids {
		s.Add(i)
	}
	return s
}

// RemoveVertex returns a new graph with the vertex labelled id and its
// incident edges removed. The receiver is not modified. Remaining vertices
// keep their labels and relative order.
func (g *Graph) RemoveVertex(id int64) (*Graph, error) {
	drop, ok := g.pos[id]
	if !ok {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, ErrUnknownVertex, "remove vertex %d", id)
	}
	n := len(g.ids) - 1
	out := &Graph{
		ids: make([]int64, 0, n),
		pos: make(map[int64]int, n),
		adj: make([]VertexSet, 0, n),
	}
	remap := make([]int, len(g.ids))
	for i, label := range g.ids {
		if i == drop {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.ids)
		out.pos[label] = len(out.ids)
		out.ids = append(out.ids, label)
	}
	for i, s := range g.adj {
		if i == drop {
			continue
		}
		ns := NewVertexSet(n)
		for j := range s.All() {
			if j != drop {
				ns.Add(remap[j])
			}
		}
		out.adj = append(out.adj, ns)
	}
	out.size = g.size - g.adj[drop].Count()
	return out, nil
}

// Relabel returns a copy of g with the vertex at position i labelled ids[i].
// Positions, and therefore structure, are unchanged.
func (g *Graph) Relabel(ids []int64) (*Graph, error) {
	if len(ids) != len(g.ids) {
		return nil, errs.New(errs.ErrCodeInvalidGraph, "relabel: got %d labels for %d vertices", len(ids), len(g.ids))
	}
	out := &Graph{
		ids:  slices.Clone(ids),
		pos:  make(map[int64]int, len(ids)),
		adj:  make([]VertexSet, len(g.adj)),
		size: g.size,
	}
	for i, id := range ids {
		if _, dup := out.pos[id]; dup {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, ErrDuplicateVertex, "relabel: vertex %d", id)
		}
		out.pos[id] = i
		out.adj[i] = g.adj[i].Clone()
	}
	return out, nil
}

// Permute returns the graph obtained by moving the vertex at position i to
// position perm[i]. Labels travel with their vertices. It panics if perm is
// not a permutation of 0..Order-1.
func (g *Graph) Permute(perm []int) *Graph {
	n := len(g.ids)
	out := &Graph{
		ids:  make([]int64, n),
		pos:  make(map[int64]int, n),
		adj:  make([]VertexSet, n),
		size: g.size,
	}
	for i, p := range perm {
		out.ids[p] = g.ids[i]
		out.pos[g.ids[i]] = p
		out.adj[p] = NewVertexSet(n)
	}
	for i, s := range g.adj {
		for j := range s.All() {
			out.adj[perm[i]].Add(perm[j])
		}
	}
	return out
}

// =============================================================================
// Builder
// =============================================================================

// Builder accumulates vertices and edges and produces a [Graph].
// The zero value is not usable; call [NewBuilder].
type Builder struct {
	ids   []int64
	pos   map[int64]int
	edges map[[2]int]struct{}
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		pos:   make(map[int64]int),
		edges: make(map[[2]int]struct{}),
	}
}

// AddVertex adds an isolated vertex. Returns ErrDuplicateVertex if the label
// already exists.
func (b *Builder) AddVertex(id int64) error {
	if _, ok := b.pos[id]; ok {
		return errs.Wrap(errs.ErrCodeInvalidGraph, ErrDuplicateVertex, "vertex %d", id)
	}
	b.pos[id] = len(b.ids)
	b.ids = append(b.ids, id)
	return nil
}

func (b *Builder) ensure(id int64) int {
	if i, ok := b.pos[id]; ok {
		return i
	}
	b.pos[id] = len(b.ids)
	b.ids = append(b.ids, id)
	return b.pos[id]
}

// AddEdge joins u and v, adding either endpoint if it is new.
// Returns ErrSelfLoop when u == v and ErrParallelEdge when the edge exists.
func (b *Builder) AddEdge(u, v int64) error {
	if u == v {
		return errs.Wrap(errs.ErrCodeInvalidGraph, ErrSelfLoop, "edge %d-%d", u, v)
	}
	i, j := b.ensure(u), b.ensure(v)
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if _, ok := b.edges[key]; ok {
		return errs.Wrap(errs.ErrCodeInvalidGraph, ErrParallelEdge, "edge %d-%d", u, v)
	}
	b.edges[key] = struct{}{}
	return nil
}

// Build returns the graph. The builder may keep being used afterwards;
// later additions do not affect graphs already built.
func (b *Builder) Build() *Graph {
	n := len(b.ids)
	g := &Graph{
		ids:  slices.Clone(b.ids),
		pos:  make(map[int64]int, n),
		adj:  make([]VertexSet, n),
		size: len(b.edges),
	}
	for i, id := range b.ids {
		g.pos[id] = i
		g.adj[i] = NewVertexSet(n)
	}
	for e := range b.edges {
		g.adj[e[0]].Add(e[1])
		g.adj[e[1]].Add(e[0])
	}
	return g
}

// =============================================================================
// Constructors
// =============================================================================

// New builds a graph on vertices 0..n-1 with the given edges.
func New(n int, edges [][2]int) (*Graph, error) {
	b := NewBuilder()
	for i := range n {
		if err := b.AddVertex(int64(i)); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, ErrUnknownVertex, "edge %d-%d on %d vertices", e[0], e[1], n)
		}
		if err := b.AddEdge(int64(e[0]), int64(e[1])); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// MustNew is like [New] but panics on error. Intended for tests and fixed tables.
func MustNew(n int, edges [][2]int) *Graph {
	g, err := New(n, edges)
	if err != nil {
		panic(err)
	}
	return g
}

// Empty returns n isolated vertices.
func Empty(n int) *Graph { return MustNew(n, nil) }

// Complete returns the complete graph K_n.
func Complete(n int) *Graph {
	var edges [][2]int
	for i := range n {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return MustNew(n, edges)
}

// Path returns the path on n vertices.
func Path(n int) *Graph {
	var edges [][2]int
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	return MustNew(n, edges)
}

// Cycle returns the cycle on n >= 3 vertices.
func Cycle(n int) *Graph {
	if n < 3 {
		panic("graph: cycle needs at least 3 vertices")
	}
	edges := [][2]int{{0, n - 1}}
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	return MustNew(n, edges)
}

// FromAdjacency builds a graph on positions 0..len(adj)-1 from neighbor sets.
// The sets must be symmetric and loop-free; this is checked.
func FromAdjacency(adj []VertexSet) (*Graph, error) {
	n := len(adj)
	g := &Graph{
		ids: make([]int64, n),
		pos: make(map[int64]int, n),
		adj: make([]VertexSet, n),
	}
	degrees := 0
	for i, s := range adj {
		g.ids[i] = int64(i)
		g.pos[int64(i)] = i
		ns := NewVertexSet(n)
		for j := range s.All() {
			if j >= n {
				return nil, errs.Wrap(errs.ErrCodeInvalidGraph, ErrUnknownVertex, "edge %d-%d on %d vertices", i, j, n)
			}
			if j == i {
				return nil, errs.Wrap(errs.ErrCodeInvalidGraph, ErrSelfLoop, "edge %d-%d", i, j)
			}
			if !adj[j].Has(i) {
				return nil, errs.New(errs.ErrCodeInvalidGraph, "asymmetric adjacency %d-%d", i, j)
			}
			ns.Add(j)
			degrees++
		}
		g.adj[i] = ns
	}
	g.size = degrees / 2
	return g, nil
}

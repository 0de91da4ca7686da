package canon

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Form is the canonical form of a graph. The zero value is the form of the
// null graph.
type Form struct {
	n        int
	code     []uint64
	labeling []int
	aut      int
	orbits   []int
}

// Canonical returns the canonical form of g.
func Canonical(g *graph.Graph) Form {
	n := g.Order()
	if n == 0 {
		return Form{aut: 1}
	}
	s := &searcher{g: g, n: n, orbitSize: map[int]int{}}
	s.search([][]int{g.All().Slice()}, nil)
	return s.form()
}

// Key returns a string that is equal for two forms exactly when the
// underlying graphs are isomorphic. It is suitable as a map key.
func (f Form) Key() string {
	b := binary.AppendUvarint(nil, uint64(f.n))
	for _, w := range f.code {
		b = binary.BigEndian.AppendUint64(b, w)
	}
	return string(b)
}

// Equal reports whether f and o describe isomorphic graphs.
func (f Form) Equal(o Form) bool {
	return f.n == o.n && slices.Equal(f.code, o.code)
}

// Compare orders forms by order, then canonical code.
func (f Form) Compare(o Form) int {
	if f.n != o.n {
		if f.n < o.n {
			return -1
		}
		return 1
	}
	return slices.Compare(f.code, o.code)
}

// Order returns the number of vertices.
func (f Form) Order() int { return f.n }

// Labeling returns the canonical ordering: element p is the position, in the
// original graph, of the vertex placed at canonical position p.
func (f Form) Labeling() []int { return slices.Clone(f.labeling) }

// Positions returns the inverse of [Form.Labeling]: element v is the
// canonical position of vertex v.
func (f Form) Positions() []int {
	pos := make([]int, f.n)
	for p, v := range f.labeling {
		pos[v] = p
	}
	return pos
}

// Automorphisms returns the order of the automorphism group. Values that do
// not fit in an int saturate at [math.MaxInt].
func (f Form) Automorphisms() int { return f.aut }

// Orbits returns, for each vertex, the smallest vertex in its orbit under the
// automorphism group.
func (f Form) Orbits() []int { return slices.Clone(f.orbits) }

// SameOrbit reports whether vertices u and v are related by an automorphism.
func (f Form) SameOrbit(u, v int) bool { return f.orbits[u] == f.orbits[v] }

// Apply returns the canonically labelled copy of g, the graph f was
// computed from. Labels travel with their vertices.
func (f Form) Apply(g *graph.Graph) *graph.Graph {
	return g.Permute(f.Positions())
}

// =============================================================================
// Search
// =============================================================================

type leaf struct {
	seq  []int
	lab  []int
	code []uint64
}

type searcher struct {
	g    *graph.Graph
	n    int
	gens [][]int

	first, best *leaf

	// orbitSize holds, per first-path level, the orbit size of the
	// individualized vertex under the stabilizer of its predecessors.
	orbitSize map[int]int
}

// search explores the subtree rooted at the partition cells reached by
// individualizing seq. The return value is the level the caller should resume
// at, or -1 to continue normally.
func (s *searcher) search(cells [][]int, seq []int) int {
	cells = s.refine(cells)

	target := slices.IndexFunc(cells, func(c []int) bool { return len(c) > 1 })
	if target < 0 {
		return s.leaf(cells, seq)
	}

	level := len(seq)
	onFirstPath := s.first == nil || isPrefix(seq, s.first.seq)
	cell := cells[target]

	for i, v := range cell {
		if i > 0 && s.equivalent(v, cell[:i], seq) {
			continue
		}
		child := individualize(cells, target, v)
		next := append(slices.Clip(seq), v)
		if j := s.search(child, next); j >= 0 && j < level {
			return j
		}
	}

	if onFirstPath {
		uf := s.orbitsFixing(seq)
		size := 0
		for _, v := range cell {
			if uf.find(v) == uf.find(cell[0]) {
				size++
			}
		}
		s.orbitSize[level] = size
	}
	return -1
}

// leaf records a discrete partition. Leaves equivalent to the first or best
// leaf yield an automorphism and a jump back to the common ancestor.
func (s *searcher) leaf(cells [][]int, seq []int) int {
	lf := &leaf{seq: slices.Clone(seq), lab: make([]int, len(cells))}
	for p, c := range cells {
		lf.lab[p] = c[0]
	}
	lf.code = s.code(lf.lab)

	if s.first == nil {
		s.first, s.best = lf, lf
		return -1
	}
	if slices.Equal(lf.code, s.first.code) {
		s.gens = append(s.gens, automorphism(s.first.lab, lf.lab))
		return commonPrefix(seq, s.first.seq)
	}
	switch slices.Compare(lf.code, s.best.code) {
	case -1:
		s.best = lf
	case 0:
		s.gens = append(s.gens, automorphism(s.best.lab, lf.lab))
		return commonPrefix(seq, s.best.seq)
	}
	return -1
}

// code packs the upper triangle of the relabelled adjacency matrix row by
// row, most significant bit first.
func (s *searcher) code(lab []int) []uint64 {
	n := len(lab)
	bits := n * (n - 1) / 2
	out := make([]uint64, (bits+63)/64)
	k := 0
	for i := range n {
		row := s.g.Neighbors(lab[i])
		for j := i + 1; j < n; j++ {
			if row.Has(lab[j]) {
				out[k>>6] |= 1 << (63 - uint(k)&63)
			}
			k++
		}
	}
	return out
}

// equivalent reports whether v lies in the orbit of one of the earlier
// children under the automorphisms found so far that fix seq pointwise.
func (s *searcher) equivalent(v int, earlier, seq []int) bool {
	if len(s.gens) == 0 {
		return false
	}
	uf := s.orbitsFixing(seq)
	rv := uf.find(v)
	for _, u := range earlier {
		if uf.find(u) == rv {
			return true
		}
	}
	return false
}

func (s *searcher) orbitsFixing(seq []int) unionFind {
	uf := newUnionFind(s.n)
	for _, gen := range s.gens {
		if fixes(gen, seq) {
			uf.apply(gen)
		}
	}
	return uf
}

func (s *searcher) form() Form {
	uf := newUnionFind(s.n)
	for _, gen := range s.gens {
		uf.apply(gen)
	}
	orbits := make([]int, s.n)
	for v := range s.n {
		orbits[v] = uf.min(v)
	}

	aut := 1
	for _, size := range s.orbitSize {
		if aut > math.MaxInt/size {
			aut = math.MaxInt
			break
		}
		aut *= size
	}

	return Form{
		n:        s.n,
		code:     s.best.code,
		labeling: s.best.lab,
		aut:      aut,
		orbits:   orbits,
	}
}

// refine splits cells until the partition is equitable: every vertex of a
// cell has the same number of neighbors in every cell. Split fragments are
// ordered by ascending neighbor count, which keeps the result independent of
// vertex numbering.
func (s *searcher) refine(cells [][]int) [][]int {
	for changed := true; changed; {
		changed = false
		for si := 0; si < len(cells); si++ {
			splitter := graph.NewVertexSet(s.n)
			for _, v := range cells[si] {
				splitter.Add(v)
			}
			next := make([][]int, 0, len(cells))
			for _, c := range cells {
				parts := s.split(c, splitter)
				if len(parts) > 1 {
					changed = true
				}
				next = append(next, parts...)
			}
			cells = next
		}
	}
	return cells
}

func (s *searcher) split(cell []int, splitter graph.VertexSet) [][]int {
	if len(cell) == 1 {
		return [][]int{cell}
	}
	counts := make(map[int][]int)
	var keys []int
	for _, v := range cell {
		c := s.g.Neighbors(v).IntersectionCount(splitter)
		if _, ok := counts[c]; !ok {
			keys = append(keys, c)
		}
		counts[c] = append(counts[c], v)
	}
	if len(keys) == 1 {
		return [][]int{cell}
	}
	slices.Sort(keys)
	parts := make([][]int, len(keys))
	for i, k := range keys {
		parts[i] = counts[k]
	}
	return parts
}

// individualize places v in its own cell directly before the rest of its
// former cell.
func individualize(cells [][]int, target, v int) [][]int {
	out := make([][]int, 0, len(cells)+1)
	out = append(out, cells[:target]...)
	rest := make([]int, 0, len(cells[target])-1)
	for _, u := range cells[target] {
		if u != v {
			rest = append(rest, u)
		}
	}
	out = append(out, []int{v}, rest)
	return append(out, cells[target+1:]...)
}

// automorphism maps from[p] to to[p] for every canonical position p.
func automorphism(from, to []int) []int {
	perm := make([]int, len(from))
	for p, v := range from {
		perm[v] = to[p]
	}
	return perm
}

func fixes(perm, points []int) bool {
	for _, v := range points {
		if perm[v] != v {
			return false
		}
	}
	return true
}

func isPrefix(prefix, s []int) bool {
	return len(prefix) <= len(s) && slices.Equal(prefix, s[:len(prefix)])
}

func commonPrefix(a, b []int) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

// =============================================================================
// Union-find
// =============================================================================

type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (uf unionFind) find(v int) int {
	for uf[v] != v {
		uf[v] = uf[uf[v]]
		v = uf[v]
	}
	return v
}

func (uf unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	uf[rb] = ra
}

func (uf unionFind) apply(perm []int) {
	for v, w := range perm {
		uf.union(v, w)
	}
}

// min returns the smallest element of v's class. Unions always keep the
// smaller root, so the root is the minimum.
func (uf unionFind) min(v int) int { return uf.find(v) }

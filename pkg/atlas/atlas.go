// Package atlas provides the canonical atlas of small graphs.
//
// The atlas lists every graph of order 0..MaxOrder exactly once up to
// isomorphism, in the order used by the classic "Atlas of Graphs":
//
//  1. increasing number of vertices
//  2. increasing number of edges
//  3. increasing degree sequence, compared as ascending sequences
//     (for example 111223 < 112222)
//  4. increasing number of automorphisms
//
// Remaining ties are broken by canonical code. Index 0 is the null graph,
// index 1 is K1. For [DefaultMaxOrder] the atlas has 1253 entries.
//
// Atlas indices are the classification keys of the streaming classifier.
package atlas

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

// DefaultMaxOrder is the largest order covered by the standard atlas.
const DefaultMaxOrder = 7

// MaxOrder is the largest order Generate accepts. The atlas up to order 9
// already has over 288 thousand entries.
const MaxOrder = 9

// Atlas is an immutable, indexed catalogue of graphs. It is safe for
// concurrent use.
type Atlas struct {
	graphs   []*graph.Graph
	keys     map[string]int
	shapes   map[shape][]int
	maxOrder int
}

type shape struct{ order, size int }

var _ source.Catalog = (*Atlas)(nil)

// Generate builds the atlas of all graphs with at most maxOrder vertices.
func Generate(maxOrder int) (*Atlas, error) {
	if maxOrder < 0 || maxOrder > MaxOrder {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "atlas order must be in 0..%d, got %d", MaxOrder, maxOrder)
	}

	type entry struct {
		g       *graph.Graph
		form    canon.Form
		degrees []int
	}
	var entries []entry
	for g := range (source.Generator{}).UpTo(maxOrder) {
		f := canon.Canonical(g)
		entries = append(entries, entry{
			g:       normalize(f.Apply(g)),
			form:    f,
			degrees: canon.DegreeSequence(g),
		})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(
			cmp.Compare(a.g.Order(), b.g.Order()),
			cmp.Compare(a.g.Size(), b.g.Size()),
			slices.Compare(a.degrees, b.degrees),
			cmp.Compare(a.form.Automorphisms(), b.form.Automorphisms()),
			a.form.Compare(b.form),
		)
	})

	graphs := make([]*graph.Graph, len(entries))
	for i, e := range entries {
		graphs[i] = e.g
	}
	return build(graphs, maxOrder), nil
}

// FromGraph6 rebuilds an atlas from the lines returned by [Atlas.Graph6].
// The order of lines is kept as is.
func FromGraph6(lines []string) (*Atlas, error) {
	graphs := make([]*graph.Graph, 0, len(lines))
	maxOrder := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		g, err := graph.ParseGraph6(line)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "atlas entry %d", i)
		}
		maxOrder = max(maxOrder, g.Order())
		graphs = append(graphs, g)
	}
	return build(graphs, maxOrder), nil
}

func build(graphs []*graph.Graph, maxOrder int) *Atlas {
	a := &Atlas{
		graphs:   graphs,
		keys:     make(map[string]int, len(graphs)),
		shapes:   make(map[shape][]int),
		maxOrder: maxOrder,
	}
	for i, g := range graphs {
		key := canon.Canonical(g).Key()
		if _, dup := a.keys[key]; !dup {
			a.keys[key] = i
		}
		s := shape{g.Order(), g.Size()}
		a.shapes[s] = append(a.shapes[s], i)
	}
	return a
}

// normalize relabels the vertices of g to 0..n-1 in position order.
func normalize(g *graph.Graph) *graph.Graph {
	ids := make([]int64, g.Order())
	for i := range ids {
		ids[i] = int64(i)
	}
	out, err := g.Relabel(ids)
	if err != nil {
		panic(err)
	}
	return out
}

// Len returns the number of entries.
func (a *Atlas) Len() int { return len(a.graphs) }

// At returns entry i. It panics if i is out of range.
func (a *Atlas) At(i int) *graph.Graph { return a.graphs[i] }

// MaxOrder returns the largest order covered.
func (a *Atlas) MaxOrder() int { return a.maxOrder }

// Candidates returns the ascending indices of entries with the given order
// and size. Only these entries can be isomorphic to such a graph.
func (a *Atlas) Candidates(order, size int) []int {
	return slices.Clone(a.shapes[shape{order, size}])
}

// Lookup returns the index of the entry isomorphic to g. It agrees with a
// linear scan in index order.
func (a *Atlas) Lookup(g *graph.Graph) (int, bool) {
	if g.Order() > a.maxOrder {
		return 0, false
	}
	i, ok := a.keys[canon.Canonical(g).Key()]
	return i, ok
}

// CountByOrder returns the number of entries of each order 0..MaxOrder.
func (a *Atlas) CountByOrder() []int {
	counts := make([]int, a.maxOrder+1)
	for _, g := range a.graphs {
		counts[g.Order()]++
	}
	return counts
}

// Graph6 returns one graph6 string per entry in index order.
func (a *Atlas) Graph6() []string {
	out := make([]string, len(a.graphs))
	for i, g := range a.graphs {
		out[i] = g.Graph6()
	}
	return out
}

// MarshalText encodes the atlas as newline-separated graph6 strings.
func (a *Atlas) MarshalText() ([]byte, error) {
	return []byte(strings.Join(a.Graph6(), "\n") + "\n"), nil
}

// Parse decodes the output of [Atlas.MarshalText].
func Parse(data []byte) (*Atlas, error) {
	return FromGraph6(strings.Split(string(data), "\n"))
}

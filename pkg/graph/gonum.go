package graph

import (
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Ensure *Graph can be handed to gonum algorithms.
var _ gonum.Undirected = (*Graph)(nil)

// Node returns the gonum node for label id, or nil if it is absent.
func (g *Graph) Node(id int64) gonum.Node {
	if _, ok := g.pos[id]; !ok {
		return nil
	}
	return simple.Node(id)
}

// Nodes returns all vertices in position order.
func (g *Graph) Nodes() gonum.Nodes {
	nodes := make([]gonum.Node, len(g.ids))
	for i, id := range g.ids {
		nodes[i] = simple.Node(id)
	}
	return iterator.NewOrderedNodes(nodes)
}

// From returns the neighbors of label id.
func (g *Graph) From(id int64) gonum.Nodes {
	i, ok := g.pos[id]
	if !ok {
		return iterator.NewOrderedNodes(nil)
	}
	var nodes []gonum.Node
	for j := range g.adj[i].All() {
		nodes = append(nodes, simple.Node(g.ids[j]))
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween reports whether labels x and y are adjacent.
func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	i, ok := g.pos[xid]
	if !ok {
		return false
	}
	j, ok := g.pos[yid]
	return ok && g.adj[i].Has(j)
}

// Edge returns the edge from u to v, or nil if they are not adjacent.
func (g *Graph) Edge(uid, vid int64) gonum.Edge {
	if !g.HasEdgeBetween(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

// EdgeBetween is Edge for undirected graphs.
func (g *Graph) EdgeBetween(xid, yid int64) gonum.Edge { return g.Edge(xid, yid) }

// Components returns the vertex labels of each connected component.
func (g *Graph) Components() [][]int64 {
	var out [][]int64
	for _, comp := range topo.ConnectedComponents(g) {
		ids := make([]int64, len(comp))
		for i, n := range comp {
			ids[i] = n.ID()
		}
		out = append(out, ids)
	}
	return out
}

// IsConnected reports whether g has exactly one connected component.
// The null graph has none and is therefore not connected.
func (g *Graph) IsConnected() bool {
	switch len(g.ids) {
	case 0:
		return false
	case 1:
		return true
	}
	return len(topo.ConnectedComponents(g)) == 1
}

// Package graph provides the finite simple graph type used by every stage of
// the criticality pipeline.
//
// # Overview
//
// A [Graph] is an immutable undirected graph without self-loops or parallel
// edges. Vertices carry opaque int64 labels and are additionally addressed by
// their position (0..Order-1) in insertion order; the clique and canon
// packages work on positions, sources and renderers work on labels.
//
// Graphs are built with a [Builder], which is the single place where the
// simple-graph preconditions are enforced:
//
//	b := graph.NewBuilder()
//	_ = b.AddEdge(1, 2)
//	_ = b.AddEdge(2, 3)
//	g := b.Build() // path on three vertices
//
// Self-loops and repeated edges are rejected with errors carrying the
// INVALID_GRAPH code from [github.com/matzehuels/cliquecrit/pkg/errors].
//
// # Vertex Removal
//
// [Graph.RemoveVertex] returns a new graph and leaves the receiver untouched.
// The criticality test depends on this: it compares the clique graph of the
// original against every one-vertex-deleted variant.
//
// # graph6
//
// [ParseGraph6] and [Graph.Graph6] implement the graph6 exchange format used
// by nauty's geng and by most published graph lists.
//
// # gonum
//
// *Graph implements [gonum.org/v1/gonum/graph.Undirected], so gonum's
// algorithms (connected components, Bron-Kerbosch) run on it without copying.
package graph

// Package clique enumerates maximal cliques and builds clique graphs.
//
// The clique graph K(G) has one vertex per maximal clique of G, with two
// vertices adjacent when their cliques share at least one vertex of G.
//
// # Bounded Enumeration
//
// [MaximalCliques] and [CliqueGraph] accept a bound. When bound > 0 and G has
// more than bound maximal cliques, enumeration stops as soon as clique
// bound+1 is found and the result is reported as indeterminate (ok=false).
// The bound is a tractability device only: callers that care solely about
// small clique graphs avoid paying for large ones. A bound of 0 always
// computes the exact result.
//
// Enumeration is Bron-Kerbosch with Tomita pivoting over
// [github.com/matzehuels/cliquecrit/pkg/graph.VertexSet] bitsets.
package clique

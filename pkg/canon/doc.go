// Package canon computes canonical forms of graphs and decides isomorphism.
//
// [Canonical] runs an individualization-refinement search: the vertex
// partition is refined to an equitable partition, a vertex of the first
// non-singleton cell is individualized, and the process repeats until the
// partition is discrete. Each discrete partition (a leaf) orders the vertices
// and so yields an adjacency code; the smallest code over all leaves is the
// canonical code. Two graphs are isomorphic exactly when their canonical
// codes are equal.
//
// Automorphisms discovered during the search (two leaves with equal codes)
// prune the search tree and give the automorphism group order and vertex
// orbits as a by-product, which the atlas and the graph generator rely on.
//
// The exhaustive functions in this package ([ExhaustiveIsomorphic],
// [ExhaustiveAutomorphisms]) try every permutation and are only practical
// for small graphs. They exist as an independent check of the search.
package canon

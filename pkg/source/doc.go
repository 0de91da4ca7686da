// Package source provides candidate graph sequences.
//
// A [Source] is a named, lazily consumed sequence of graphs. Sequences may be
// finite or very long; consumers pull graphs one at a time and never need to
// know the total. A source can fail part way through, in which case it
// yields a non-nil error and stops.
//
// Available sources:
//   - [Slice]: a fixed list of graphs
//   - [Atlas]: entries of a graph catalogue such as the canonical atlas
//   - [Graph6] and [Graph6File]: one graph6 string per line
//   - [Generate]: every graph of a given order up to isomorphism, produced
//     in-process by [Generator]
package source

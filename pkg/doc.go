// Package pkg provides the core libraries for cliquecrit.
//
// # Overview
//
// cliquecrit searches small graphs for clique-critical ones: graphs G where
// deleting any single vertex changes the clique graph K(G) up to isomorphism.
// Every critical graph found is filed under the atlas entry that K(G) is
// isomorphic to, and the resulting groups are laid out as a paged table of
// node-link drawings.
//
// # Architecture
//
// The typical data flow:
//
//	graph6 files / in-process generator / atlas entries
//	         ↓
//	    [source] package (named candidate sequences)
//	         ↓
//	    [critical] package (clique graph + vertex-deletion test)
//	         ↓
//	    [classify] package (atlas lookup, bucket map, streaming)
//	         ↓
//	    [page] package (fixed-capacity pages)
//	         ↓
//	    [render/nodelink] package (Graphviz drawings)
//	         ↓
//	    PDF/SVG/PNG/DOT/JSON/TOML output
//
// # Quick Start
//
// Classify all graphs of order 6 against an atlas of order 7:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cliquecrit/pkg/atlas"
//	    "github.com/matzehuels/cliquecrit/pkg/classify"
//	    "github.com/matzehuels/cliquecrit/pkg/page"
//	    "github.com/matzehuels/cliquecrit/pkg/source"
//	)
//
//	a, _ := atlas.Generate(7)
//	s := classify.NewStreamer(classify.NewClassifier(a), nil)
//	m := classify.NewMap()
//	stats, _ := s.Stream(context.Background(), source.Generate(6), m, classify.StreamOptions{})
//	pages := page.Paginate(m, 6)
//
// The [pipeline] package runs the same steps with caching, several sources
// and output rendering.
//
// # Main Packages
//
// ## Graph Model
//
// [graph] - Immutable simple graphs over bitset adjacency, graph6 encoding,
// and a gonum graph view for connectivity.
//
// [canon] - Canonical labelling by partition refinement, automorphism group
// order, orbits, and brute-force cross-checks for small graphs.
//
// [clique] - Bounded maximal-clique enumeration and clique graphs.
//
// ## Domain Logic
//
// [critical] - The clique-criticality test with its three verdicts.
//
// [atlas] - The catalogue of all graphs up to a fixed order in atlas order.
//
// [source] - Candidate sequences: graph6 streams, the isomorph-free
// generator, atlas entries, and fixed slices.
//
// [classify] - Atlas classification, the bucket map, and the streaming
// classifier with its optional worker pool.
//
// [page] - Splitting a bucket map into pages of bounded capacity.
//
// ## Output
//
// [render/nodelink] - DOT generation and Graphviz layout for one page.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
// [io] - The JSON/TOML classification report.
//
// ## Infrastructure
//
// [pipeline] - Atlas, classify, paginate, render; used by the CLI.
//
// [cache] - File, Redis and null caches for atlases and artifacts.
//
// [config] - Layered configuration from defaults, TOML, environment and flags.
//
// [metrics] - Prometheus collectors fed through [observability] hooks.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/critical/...           # Specific package
//	go test -run Example                 # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/graph
// [canon]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/canon
// [clique]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/clique
// [critical]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/critical
// [atlas]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/atlas
// [source]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/source
// [classify]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/classify
// [page]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/page
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/config
// [metrics]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cliquecrit/pkg/errors
package pkg

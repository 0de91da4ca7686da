package source

import (
	"fmt"
	"iter"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Source is a named candidate sequence.
type Source struct {
	// Name identifies the source in logs, statistics and error messages.
	Name string

	// Seq yields graphs in order. A non-nil error ends the sequence.
	Seq iter.Seq2[*graph.Graph, error]
}

// Catalog is an indexed, read-only collection of graphs.
type Catalog interface {
	Len() int
	At(i int) *graph.Graph
}

// Slice returns a source over a fixed list of graphs.
func Slice(name string, graphs []*graph.Graph) Source {
	return Source{
		Name: name,
		Seq: func(yield func(*graph.Graph, error) bool) {
			for _, g := range graphs {
				if !yield(g, nil) {
					return
				}
			}
		},
	}
}

// Atlas returns a source over catalogue entries from..Len()-1 in index order.
// A from beyond the end yields nothing.
func Atlas(c Catalog, from int) Source {
	return Source{
		Name: "atlas",
		Seq: func(yield func(*graph.Graph, error) bool) {
			for i := max(from, 0); i < c.Len(); i++ {
				if !yield(c.At(i), nil) {
					return
				}
			}
		},
	}
}

// Generate returns a source over all graphs of order n up to isomorphism.
// Orders above [errs.MaxGeneratedOrder] fail on the first pull.
func Generate(n int) Source {
	return Source{
		Name: fmt.Sprintf("order %d", n),
		Seq: func(yield func(*graph.Graph, error) bool) {
			if err := errs.ValidateOrder(n); err != nil {
				yield(nil, err)
				return
			}
			for g := range (Generator{}).All(n) {
				if !yield(g, nil) {
					return
				}
			}
		},
	}
}

// Collect drains src into a slice, stopping at the first error.
func Collect(src Source) ([]*graph.Graph, error) {
	var out []*graph.Graph
	for g, err := range src.Seq {
		if err != nil {
			return out, err
		}
		out = append(out, g)
	}
	return out, nil
}

package classify

import (
	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/canon"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// IsoOracle is an exact, symmetric isomorphism test.
type IsoOracle interface {
	Isomorphic(a, b *graph.Graph) bool
}

// Catalog is the ordered reference list graphs are matched against.
type Catalog interface {
	Len() int
	At(i int) *graph.Graph
	// Candidates returns, ascending, the indices of entries with the given
	// order and size.
	Candidates(order, size int) []int
}

// Classifier maps a graph to the index of the first isomorphic catalogue
// entry.
type Classifier struct {
	Atlas Catalog
	Iso   IsoOracle

	// MaxOrder is the coverage limit. Larger graphs are NoMatch without any
	// oracle call.
	MaxOrder int
}

// NewClassifier returns a classifier over a with the in-process isomorphism
// oracle.
func NewClassifier(a *atlas.Atlas) *Classifier {
	return &Classifier{Atlas: a, Iso: canon.Checker{}, MaxOrder: a.MaxOrder()}
}

// Classify returns the key for h. Only entries with h's order and size are
// compared; no other entry can be isomorphic, so the first match is the
// same as that of a full scan in index order.
func (c *Classifier) Classify(h *graph.Graph) (Key, error) {
	if h == nil {
		return Key{}, errs.Wrap(errs.ErrCodeInvalidGraph, graph.ErrNilGraph, "classify")
	}
	if h.Order() > c.MaxOrder {
		return NoMatch, nil
	}
	for _, i := range c.Atlas.Candidates(h.Order(), h.Size()) {
		if c.Iso.Isomorphic(h, c.Atlas.At(i)) {
			return Index(i), nil
		}
	}
	return NoMatch, nil
}

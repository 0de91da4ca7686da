// Package critical decides whether a graph is clique-critical.
//
// A graph G is clique-critical when deleting any single vertex changes the
// isomorphism type of its clique graph K(G). [Tester.Test] computes K(G)
// once, then compares it against K(G-v) for every vertex v and stops at the
// first v whose deletion leaves the clique graph unchanged.
//
// # Bound
//
// The first clique-graph computation is bounded: when G has more than Bound
// maximal cliques the outcome is [Indeterminate] and no further work is
// done. Downstream stages only use clique graphs with at most five vertices,
// so exact answers for larger ones are wasted. The bound is a tractability
// setting, not part of the definition; Bound 0 makes the test exact.
//
// # Small Graphs
//
// Graphs with zero or one vertex have no vertex whose deletion could leave
// the clique graph unchanged, so they are Critical by convention. The null
// graph's clique graph is the null graph; K1's is K1.
package critical

import (
	"fmt"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	"github.com/matzehuels/cliquecrit/pkg/clique"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// DefaultBound is the maximal-clique bound for the first clique-graph
// computation.
const DefaultBound = 5

// Verdict is the result class of a criticality test.
type Verdict int

const (
	// NotCritical means some vertex deletion preserves the clique graph.
	NotCritical Verdict = iota
	// Critical means every vertex deletion changes the clique graph.
	Critical
	// Indeterminate means the maximal-clique bound was exceeded.
	Indeterminate
)

func (v Verdict) String() string {
	switch v {
	case NotCritical:
		return "not critical"
	case Critical:
		return "critical"
	case Indeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Outcome is the result of [Tester.Test]. CliqueGraph is set only when
// Verdict is Critical.
type Outcome struct {
	Verdict     Verdict
	CliqueGraph *graph.Graph
}

// CliqueOracle computes clique graphs. With bound > 0 it may return
// ok=false once more than bound maximal cliques exist; with bound 0 it is
// exact.
type CliqueOracle interface {
	CliqueGraph(g *graph.Graph, bound int) (k *graph.Graph, ok bool)
}

// IsoOracle is an exact, symmetric isomorphism test.
type IsoOracle interface {
	Isomorphic(a, b *graph.Graph) bool
}

// Tester runs the criticality test. It holds no mutable state and is safe
// for concurrent use if its oracles are.
type Tester struct {
	Cliques CliqueOracle
	Iso     IsoOracle

	// Bound limits the first clique-graph computation. 0 disables it.
	Bound int
}

// NewTester returns a tester with the in-process oracles and DefaultBound.
func NewTester() *Tester {
	return &Tester{
		Cliques: clique.Oracle{},
		Iso:     canon.Checker{},
		Bound:   DefaultBound,
	}
}

// Test decides whether g is clique-critical. g is never modified. A nil
// graph is a precondition violation.
func (t *Tester) Test(g *graph.Graph) (Outcome, error) {
	if g == nil {
		return Outcome{}, errs.Wrap(errs.ErrCodeInvalidGraph, graph.ErrNilGraph, "criticality test")
	}

	baseline, ok := t.Cliques.CliqueGraph(g, t.Bound)
	if !ok {
		return Outcome{Verdict: Indeterminate}, nil
	}
	if g.Order() <= 1 {
		return Outcome{Verdict: Critical, CliqueGraph: baseline}, nil
	}

	for _, id := range g.IDs() {
		reduced, err := g.RemoveVertex(id)
		if err != nil {
			return Outcome{}, err
		}
		k, _ := t.Cliques.CliqueGraph(reduced, clique.Unbounded)
		if t.Iso.Isomorphic(baseline, k) {
			return Outcome{Verdict: NotCritical}, nil
		}
	}
	return Outcome{Verdict: Critical, CliqueGraph: baseline}, nil
}

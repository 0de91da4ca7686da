package critical

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	"github.com/matzehuels/cliquecrit/pkg/clique"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func TestTest(t *testing.T) {
	tests := []struct {
		name      string
		g         *graph.Graph
		want      Verdict
		wantOrder int // clique graph order when Critical
	}{
		{"null", graph.Empty(0), Critical, 0},
		{"K1", graph.Complete(1), Critical, 1},
		{"K2", graph.Complete(2), NotCritical, 0},
		{"triangle", graph.Complete(3), NotCritical, 0},
		{"K4", graph.Complete(4), NotCritical, 0},
		{"empty2", graph.Empty(2), Critical, 2},
		{"P3", graph.Path(3), Critical, 2},
		{"C4", graph.Cycle(4), Critical, 4},
		{"C5", graph.Cycle(5), Critical, 5},
		{"C6 over bound", graph.Cycle(6), Indeterminate, 0},
		{"diamond", graph.MustNew(4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}), NotCritical, 0},
	}

	tester := NewTester()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.g.Graph6()
			got, err := tester.Test(tt.g)
			if err != nil {
				t.Fatalf("Test() error: %v", err)
			}
			if got.Verdict != tt.want {
				t.Fatalf("Verdict = %v, want %v", got.Verdict, tt.want)
			}
			if tt.want == Critical {
				if got.CliqueGraph == nil || got.CliqueGraph.Order() != tt.wantOrder {
					t.Errorf("clique graph = %v, want order %d", got.CliqueGraph, tt.wantOrder)
				}
			} else if got.CliqueGraph != nil {
				t.Error("non-critical outcome carries a clique graph")
			}
			if tt.g.Graph6() != before {
				t.Error("Test modified its input")
			}
		})
	}
}

func TestSingleVertexMatchesOracle(t *testing.T) {
	g := graph.Complete(1)
	got, _ := NewTester().Test(g)
	direct, _ := clique.CliqueGraph(g, clique.Unbounded)
	if got.Verdict != Critical || !canon.Isomorphic(got.CliqueGraph, direct) {
		t.Errorf("K1: got %v, want Critical with the oracle's clique graph", got.Verdict)
	}
}

func TestUnboundedTester(t *testing.T) {
	tester := NewTester()
	tester.Bound = 0

	got, err := tester.Test(graph.Cycle(6))
	if err != nil {
		t.Fatal(err)
	}
	if got.Verdict != Critical || got.CliqueGraph.Order() != 6 {
		t.Errorf("C6 unbounded: got %v with %v, want Critical with order 6", got.Verdict, got.CliqueGraph)
	}
}

func TestNilGraph(t *testing.T) {
	_, err := NewTester().Test(nil)
	if !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("got %v, want INVALID_GRAPH", err)
	}
}

func TestRelabelInvariance(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	tester := NewTester()
	for trial := range 200 {
		n := 1 + r.IntN(7)
		var edges [][2]int
		for i := range n {
			for j := i + 1; j < n; j++ {
				if r.Float64() < 0.5 {
					edges = append(edges, [2]int{i, j})
				}
			}
		}
		g := graph.MustNew(n, edges)
		h := g.Permute(r.Perm(n))

		og, err := tester.Test(g)
		if err != nil {
			t.Fatal(err)
		}
		oh, err := tester.Test(h)
		if err != nil {
			t.Fatal(err)
		}
		if og.Verdict != oh.Verdict {
			t.Fatalf("trial %d: %s is %v but its relabelling is %v", trial, g.Graph6(), og.Verdict, oh.Verdict)
		}
		if og.Verdict == Critical && !canon.Isomorphic(og.CliqueGraph, oh.CliqueGraph) {
			t.Fatalf("trial %d: clique graphs of %s and its relabelling differ", trial, g.Graph6())
		}
	}
}

// recordingOracle wraps the real oracle and records the bounds it receives.
type recordingOracle struct {
	bounds []int
}

func (o *recordingOracle) CliqueGraph(g *graph.Graph, bound int) (*graph.Graph, bool) {
	o.bounds = append(o.bounds, bound)
	return clique.CliqueGraph(g, bound)
}

type countingIso struct{ calls int }

func (c *countingIso) Isomorphic(a, b *graph.Graph) bool {
	c.calls++
	return canon.Isomorphic(a, b)
}

func TestOracleUsage(t *testing.T) {
	cliques := &recordingOracle{}
	iso := &countingIso{}
	tester := &Tester{Cliques: cliques, Iso: iso, Bound: 3}

	// Every deletion from K4 leaves K3, so the first comparison matches.
	got, _ := tester.Test(graph.Complete(4))
	if got.Verdict != NotCritical {
		t.Fatalf("Verdict = %v, want not critical", got.Verdict)
	}
	if iso.calls != 1 {
		t.Errorf("isomorphism oracle called %d times, want 1 (short circuit)", iso.calls)
	}
	if len(cliques.bounds) != 2 || cliques.bounds[0] != 3 || cliques.bounds[1] != 0 {
		t.Errorf("oracle bounds = %v, want [3 0]", cliques.bounds)
	}

	// Indeterminate stops after the bounded call.
	cliques.bounds = nil
	got, _ = tester.Test(graph.Cycle(4))
	if got.Verdict != Indeterminate || len(cliques.bounds) != 1 {
		t.Errorf("C4 with bound 3: verdict %v after %d oracle calls", got.Verdict, len(cliques.bounds))
	}
}

func TestVerdictString(t *testing.T) {
	if Critical.String() != "critical" || Verdict(9).String() != "Verdict(9)" {
		t.Error("unexpected Verdict strings")
	}
}

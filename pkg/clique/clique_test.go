package clique

import (
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func TestMaximalCliques(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
		want [][]int
	}{
		{"null", graph.Empty(0), nil},
		{"K1", graph.Complete(1), [][]int{{0}}},
		{"empty3", graph.Empty(3), [][]int{{0}, {1}, {2}}},
		{"K3", graph.Complete(3), [][]int{{0, 1, 2}}},
		{"P3", graph.Path(3), [][]int{{0, 1}, {1, 2}}},
		{"C4", graph.Cycle(4), [][]int{{0, 1}, {0, 3}, {1, 2}, {2, 3}}},
		{"diamond", graph.MustNew(4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}), [][]int{{0, 1, 2}, {1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MaximalCliques(tt.g, Unbounded)
			if !ok {
				t.Fatal("unbounded enumeration reported indeterminate")
			}
			if !slices.EqualFunc(got, tt.want, slices.Equal) {
				t.Errorf("MaximalCliques() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaximalCliquesBound(t *testing.T) {
	c6 := graph.Cycle(6) // six maximal cliques

	tests := []struct {
		bound  int
		wantOK bool
	}{
		{Unbounded, true},
		{1, false},
		{5, false},
		{6, true},
		{7, true},
	}

	for _, tt := range tests {
		cliques, ok := MaximalCliques(c6, tt.bound)
		if ok != tt.wantOK {
			t.Errorf("bound %d: ok = %v, want %v", tt.bound, ok, tt.wantOK)
		}
		if ok && len(cliques) != 6 {
			t.Errorf("bound %d: got %d cliques, want 6", tt.bound, len(cliques))
		}
		if !ok && cliques != nil {
			t.Errorf("bound %d: indeterminate result carried cliques", tt.bound)
		}
	}
}

func TestCliqueGraph(t *testing.T) {
	tests := []struct {
		name      string
		g         *graph.Graph
		wantOrder int
		wantSize  int
	}{
		{"null", graph.Empty(0), 0, 0},
		{"K1", graph.Complete(1), 1, 0},
		{"K4", graph.Complete(4), 1, 0},
		{"P3", graph.Path(3), 2, 1},
		{"P4", graph.Path(4), 3, 2},
		{"C4", graph.Cycle(4), 4, 4},
		{"C5", graph.Cycle(5), 5, 5},
		{"star", graph.MustNew(4, [][2]int{{0, 1}, {0, 2}, {0, 3}}), 3, 3},
		{"empty3", graph.Empty(3), 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := CliqueGraph(tt.g, Unbounded)
			if !ok {
				t.Fatal("unbounded clique graph reported indeterminate")
			}
			if k.Order() != tt.wantOrder || k.Size() != tt.wantSize {
				t.Errorf("K(G) has order %d size %d, want %d/%d", k.Order(), k.Size(), tt.wantOrder, tt.wantSize)
			}
		})
	}
}

func TestCliqueGraphIndeterminate(t *testing.T) {
	if _, ok := CliqueGraph(graph.Cycle(7), 5); ok {
		t.Error("C7 has 7 cliques; bound 5 should be indeterminate")
	}
	if _, ok := (Oracle{}).CliqueGraph(graph.Cycle(5), 5); !ok {
		t.Error("C5 has 5 cliques; bound 5 should be exact")
	}
}

func TestMaximalCliquesMatchesGonum(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := range 200 {
		n := 1 + r.IntN(12)
		var edges [][2]int
		for i := range n {
			for j := i + 1; j < n; j++ {
				if r.Float64() < 0.45 {
					edges = append(edges, [2]int{i, j})
				}
			}
		}
		g := graph.MustNew(n, edges)

		got, ok := MaximalCliques(g, Unbounded)
		if !ok {
			t.Fatalf("trial %d: unbounded enumeration reported indeterminate", trial)
		}

		var want [][]int
		for _, c := range topo.BronKerbosch(g) {
			ids := make([]int, len(c))
			for i, node := range c {
				idx, _ := g.Index(node.ID())
				ids[i] = idx
			}
			slices.Sort(ids)
			want = append(want, ids)
		}
		slices.SortFunc(want, slices.Compare)

		if !slices.EqualFunc(got, want, slices.Equal) {
			t.Fatalf("trial %d (%s): got %v, gonum %v", trial, g.Graph6(), got, want)
		}
	}
}

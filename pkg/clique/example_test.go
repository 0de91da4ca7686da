package clique_test

import (
	"fmt"

	"github.com/matzehuels/cliquecrit/pkg/clique"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func ExampleCliqueGraph() {
	// The clique graph of a 4-cycle is again a 4-cycle.
	k, ok := clique.CliqueGraph(graph.Cycle(4), clique.Unbounded)
	fmt.Println(ok, k.Order(), k.Size())
	// Output: true 4 4
}

func ExampleMaximalCliques() {
	cliques, _ := clique.MaximalCliques(graph.Path(4), clique.Unbounded)
	fmt.Println(cliques)
	// Output: [[0 1] [1 2] [2 3]]
}

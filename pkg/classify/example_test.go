package classify_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/classify"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

func ExampleStreamer_Stream() {
	a, _ := atlas.Generate(5)
	s := classify.NewStreamer(classify.NewClassifier(a), nil)

	m := classify.NewMap()
	candidates := source.Slice("demo", []*graph.Graph{
		graph.Complete(1),
		graph.Complete(3),
		graph.Path(3),
	})
	stats, _ := s.Stream(context.Background(), candidates, m, classify.StreamOptions{})

	fmt.Println("examined:", stats.Examined, "accepted:", stats.Accepted)
	for key, graphs := range m.All() {
		fmt.Println(key, len(graphs))
	}
	// Output:
	// examined: 3 accepted: 2
	// 1 1
	// 3 1
}

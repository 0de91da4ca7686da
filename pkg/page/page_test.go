package page

import (
	"slices"
	"testing"

	"github.com/matzehuels/cliquecrit/pkg/classify"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func fill(m *classify.Map, k classify.Key, n int) []*graph.Graph {
	var out []*graph.Graph
	for i := range n {
		g := graph.Path(i + 1)
		m.Append(k, g)
		out = append(out, g)
	}
	return out
}

func TestPaginate(t *testing.T) {
	m := classify.NewMap()
	fill(m, classify.NoMatch, 2)
	fill(m, classify.Index(16), 13)
	fill(m, classify.Index(1), 6)

	pages := Paginate(m, 6)

	type shape struct {
		key    classify.Key
		number int
		offset int
		size   int
	}
	want := []shape{
		{classify.Index(1), 1, 0, 6},
		{classify.Index(16), 1, 0, 6},
		{classify.Index(16), 2, 6, 6},
		{classify.Index(16), 3, 12, 1},
		{classify.NoMatch, 1, 0, 2},
	}
	if len(pages) != len(want) {
		t.Fatalf("got %d pages, want %d", len(pages), len(want))
	}
	for i, p := range pages {
		got := shape{p.Key, p.Number, p.Offset, len(p.Graphs)}
		if got != want[i] {
			t.Errorf("page %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestPaginateRoundTrip(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 5, 6, 7, 50} {
		m := classify.NewMap()
		buckets := map[classify.Key][]*graph.Graph{
			classify.Index(3):  fill(m, classify.Index(3), 11),
			classify.Index(40): fill(m, classify.Index(40), 1),
			classify.NoMatch:   fill(m, classify.NoMatch, 6),
		}

		got := map[classify.Key][]*graph.Graph{}
		pages := Paginate(m, capacity)
		for i, p := range pages {
			if len(p.Graphs) == 0 || len(p.Graphs) > capacity {
				t.Errorf("capacity %d: page %d has %d graphs", capacity, i, len(p.Graphs))
			}
			last := i == len(pages)-1 || pages[i+1].Key != p.Key
			if !last && len(p.Graphs) != capacity {
				t.Errorf("capacity %d: short page %d is not the last of its bucket", capacity, i)
			}
			got[p.Key] = append(got[p.Key], p.Graphs...)
		}
		for k, bucket := range buckets {
			if !slices.Equal(got[k], bucket) {
				t.Errorf("capacity %d: bucket %v not reproduced", capacity, k)
			}
		}
	}
}

func TestPaginateDefaults(t *testing.T) {
	if pages := Paginate(classify.NewMap(), 0); len(pages) != 0 {
		t.Errorf("empty map produced %d pages", len(pages))
	}

	m := classify.NewMap()
	fill(m, classify.Index(1), 7)
	pages := Paginate(m, -3)
	if len(pages) != 2 || len(pages[0].Graphs) != DefaultCapacity {
		t.Errorf("capacity <= 0 should use %d per page", DefaultCapacity)
	}
	if pages[0].Title() != "1" || pages[1].Title() != "1 (page 2)" {
		t.Errorf("titles = %q, %q", pages[0].Title(), pages[1].Title())
	}
}

func TestPaginateDoesNotAlias(t *testing.T) {
	m := classify.NewMap()
	fill(m, classify.Index(1), 4)
	pages := Paginate(m, 2)
	_ = append(pages[0].Graphs, graph.Complete(9))
	if pages[1].Graphs[0].Order() == 9 {
		t.Error("appending to one page overwrote the next")
	}
}

package classify

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/canon"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

var smallAtlas = sync.OnceValue(func() *atlas.Atlas {
	a, err := atlas.Generate(5)
	if err != nil {
		panic(err)
	}
	return a
})

func newStreamer() *Streamer {
	return NewStreamer(NewClassifier(smallAtlas()), nil)
}

func graph6s(graphs []*graph.Graph) []string {
	out := make([]string, len(graphs))
	for i, g := range graphs {
		out[i] = g.Graph6()
	}
	return out
}

// =============================================================================
// Key
// =============================================================================

func TestKeyOrdering(t *testing.T) {
	keys := []Key{NoMatch, Index(7), Index(0), Index(52), Index(1)}
	slices.SortFunc(keys, Key.Compare)

	want := []Key{Index(0), Index(1), Index(7), Index(52), NoMatch}
	if !slices.Equal(keys, want) {
		t.Errorf("sorted keys = %v, want %v", keys, want)
	}
	if NoMatch.Less(Index(1000)) || !Index(1000).Less(NoMatch) {
		t.Error("NoMatch must sort after every index")
	}
	if Index(0) == NoMatch {
		t.Error("Index(0) must differ from NoMatch")
	}
}

func TestKeyText(t *testing.T) {
	tests := []struct {
		key  Key
		text string
	}{
		{Index(0), "0"},
		{Index(16), "16"},
		{NoMatch, "unclassified"},
	}
	for _, tt := range tests {
		if tt.key.String() != tt.text {
			t.Errorf("String() = %q, want %q", tt.key.String(), tt.text)
		}
		got, err := ParseKey(tt.text)
		if err != nil || got != tt.key {
			t.Errorf("ParseKey(%q) = %v, %v", tt.text, got, err)
		}
	}

	for _, bad := range []string{"", "-1", "x", "1.5"} {
		if _, err := ParseKey(bad); !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ParseKey(%q): got %v, want INVALID_FORMAT", bad, err)
		}
	}

	data, err := json.Marshal(map[Key]int{Index(3): 1, NoMatch: 2})
	if err != nil {
		t.Fatal(err)
	}
	var back map[Key]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[Index(3)] != 1 || back[NoMatch] != 2 {
		t.Errorf("JSON round trip = %v", back)
	}
}

// =============================================================================
// Classifier
// =============================================================================

func TestClassify(t *testing.T) {
	a := smallAtlas()
	c := NewClassifier(a)

	for _, h := range []*graph.Graph{graph.Empty(0), graph.Complete(1), graph.Empty(2), graph.Cycle(4), graph.Cycle(5)} {
		want, _ := a.Lookup(h)
		got, err := c.Classify(h)
		if err != nil {
			t.Fatal(err)
		}
		if got != Index(want) {
			t.Errorf("Classify(%s) = %v, want %d", h.Graph6(), got, want)
		}
		if again, _ := c.Classify(h); again != got {
			t.Errorf("Classify(%s) is not deterministic", h.Graph6())
		}
	}

	if got, _ := c.Classify(graph.Complete(1)); got != Index(1) {
		t.Errorf("K1 should be atlas index 1, got %v", got)
	}
}

type countingIso struct{ calls int }

func (c *countingIso) Isomorphic(a, b *graph.Graph) bool {
	c.calls++
	return canon.Isomorphic(a, b)
}

func TestClassifyOversized(t *testing.T) {
	iso := &countingIso{}
	c := &Classifier{Atlas: smallAtlas(), Iso: iso, MaxOrder: 5}

	got, err := c.Classify(graph.Path(6))
	if err != nil || got != NoMatch {
		t.Errorf("Classify(P6) = %v, %v; want NoMatch", got, err)
	}
	if iso.calls != 0 {
		t.Errorf("oversized graph caused %d oracle calls", iso.calls)
	}
}

func TestClassifyNil(t *testing.T) {
	if _, err := NewClassifier(smallAtlas()).Classify(nil); !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("got %v, want INVALID_GRAPH", err)
	}
}

// =============================================================================
// Map
// =============================================================================

func TestMap(t *testing.T) {
	var m Map
	if m.Len() != 0 || m.Total() != 0 || len(m.Keys()) != 0 {
		t.Fatal("zero Map is not empty")
	}

	p3, c4, k1 := graph.Path(3), graph.Cycle(4), graph.Complete(1)
	m.Append(NoMatch, p3)
	m.Append(Index(4), c4)
	m.Append(Index(4), k1)
	m.Append(Index(1), p3)

	if got := m.Keys(); !slices.Equal(got, []Key{Index(1), Index(4), NoMatch}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := m.Bucket(Index(4)); len(got) != 2 || got[0] != c4 || got[1] != k1 {
		t.Errorf("Bucket(4) lost insertion order")
	}
	if m.Bucket(Index(99)) != nil {
		t.Error("missing bucket should be nil")
	}
	if m.Len() != 3 || m.Total() != 4 {
		t.Errorf("Len() = %d, Total() = %d", m.Len(), m.Total())
	}

	b := m.Bucket(Index(4))
	b[0] = nil
	if m.Bucket(Index(4))[0] == nil {
		t.Error("Bucket() exposed internal storage")
	}

	var order []Key
	for k := range m.All() {
		order = append(order, k)
	}
	if !slices.Equal(order, m.Keys()) {
		t.Errorf("All() order = %v", order)
	}
}

func TestMapMerge(t *testing.T) {
	a, b := NewMap(), NewMap()
	a.Append(Index(1), graph.Path(2))
	b.Append(Index(1), graph.Path(3))
	b.Append(NoMatch, graph.Path(4))

	a.Merge(b)
	a.Merge(a)
	if got := graph6s(a.Bucket(Index(1))); !slices.Equal(got, []string{"A_", "Bg"}) {
		t.Errorf("merged bucket = %v", got)
	}
	if a.Total() != 3 {
		t.Errorf("Total() = %d, want 3", a.Total())
	}
}

// =============================================================================
// Streamer
// =============================================================================

func TestStreamEmpty(t *testing.T) {
	m := NewMap()
	m.Append(Index(1), graph.Complete(1))

	stats, err := newStreamer().Stream(context.Background(), source.Slice("empty", nil), m, StreamOptions{})
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}
	if stats.Examined != 0 || m.Total() != 1 {
		t.Errorf("empty source changed the map: examined %d, total %d", stats.Examined, m.Total())
	}
}

func TestStreamScenarios(t *testing.T) {
	m := NewMap()
	graphs := []*graph.Graph{
		graph.Complete(3), // not critical
		graph.Complete(1), // critical, K(G) = K1
		graph.Cycle(6),    // indeterminate
		graph.Cycle(4),    // critical, K(G) = C4
	}
	stats, err := newStreamer().Stream(context.Background(), source.Slice("fixed", graphs), m, StreamOptions{})
	if err != nil {
		t.Fatal(err)
	}

	want := Stats{Source: "fixed", Examined: 4, Indeterminate: 1, NotCritical: 1, Accepted: 2}
	stats.Duration = 0
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
	if got := m.Bucket(Index(1)); len(got) != 1 || got[0] != graphs[1] {
		t.Errorf("K1 should land in bucket 1, got %v", graph6s(got))
	}
	c4, _ := smallAtlas().Lookup(graph.Cycle(4))
	if got := m.Bucket(Index(c4)); len(got) != 1 || got[0] != graphs[3] {
		t.Errorf("C4 should land in bucket %d", c4)
	}
}

func TestStreamFilterConnected(t *testing.T) {
	twoK1 := graph.Empty(2)
	s := newStreamer()

	m := NewMap()
	stats, _ := s.Stream(context.Background(), source.Slice("x", []*graph.Graph{twoK1}), m, StreamOptions{FilterConnected: true})
	if m.Total() != 0 || stats.Disconnected != 1 {
		t.Errorf("filtered: total %d, disconnected %d", m.Total(), stats.Disconnected)
	}

	stats, _ = s.Stream(context.Background(), source.Slice("x", []*graph.Graph{twoK1}), m, StreamOptions{})
	if stats.Accepted != 1 || len(m.Bucket(Index(2))) != 1 {
		t.Errorf("unfiltered: accepted %d, bucket 2 = %v", stats.Accepted, graph6s(m.Bucket(Index(2))))
	}
}

func TestStreamComposes(t *testing.T) {
	s := newStreamer()
	m := NewMap()
	first := []*graph.Graph{graph.Complete(1), graph.Path(3)}
	second := []*graph.Graph{graph.MustNew(1, nil), graph.Path(3).Permute([]int{2, 0, 1})}

	for _, batch := range [][]*graph.Graph{first, second} {
		if _, err := s.Stream(context.Background(), source.Slice("batch", batch), m, StreamOptions{}); err != nil {
			t.Fatal(err)
		}
	}

	got := m.Bucket(Index(1))
	if len(got) != 2 || got[0] != first[0] || got[1] != second[0] {
		t.Errorf("bucket 1 = %v, want the K1 of each call in call order", graph6s(got))
	}
	if got := m.Bucket(Index(3)); len(got) != 2 || got[0] != first[1] || got[1] != second[1] {
		t.Errorf("bucket 3 = %v, want both paths in call order", graph6s(got))
	}
}

func TestStreamThreshold(t *testing.T) {
	s := newStreamer()
	s.Threshold = 3

	m := NewMap()
	stats, _ := s.Stream(context.Background(), source.Slice("x", []*graph.Graph{graph.Cycle(4)}), m, StreamOptions{})
	if stats.Oversized != 1 || m.Total() != 0 {
		t.Errorf("C4 with threshold 3: oversized %d, total %d", stats.Oversized, m.Total())
	}
}

func TestStreamNoMatch(t *testing.T) {
	a, _ := atlas.Generate(3)
	s := NewStreamer(NewClassifier(a), nil)

	m := NewMap()
	s.Stream(context.Background(), source.Slice("x", []*graph.Graph{graph.Cycle(4)}), m, StreamOptions{})
	if len(m.Bucket(NoMatch)) != 1 {
		t.Errorf("C4 against an order-3 atlas should be unclassified, keys %v", m.Keys())
	}
}

func TestStreamErrorKeepsMap(t *testing.T) {
	for _, workers := range []int{1, 4} {
		m := NewMap()
		input := "@\n@\nB~\n@\n"
		stats, err := newStreamer().Stream(context.Background(), source.Graph6("bad.g6", strings.NewReader(input)), m, StreamOptions{Workers: workers})

		if !errs.Is(err, errs.ErrCodeInvalidGraph) {
			t.Fatalf("workers=%d: got %v, want INVALID_GRAPH", workers, err)
		}
		if !strings.Contains(err.Error(), "bad.g6:3") {
			t.Errorf("workers=%d: error %q does not name the failing line", workers, err)
		}
		if m.Total() != 2 || stats.Examined != 2 {
			t.Errorf("workers=%d: total %d examined %d, want the two graphs before the failure", workers, m.Total(), stats.Examined)
		}
	}
}

func TestStreamNilGraph(t *testing.T) {
	m := NewMap()
	_, err := newStreamer().Stream(context.Background(), source.Slice("s", []*graph.Graph{graph.Complete(1), nil}), m, StreamOptions{})
	if !errs.Is(err, errs.ErrCodeInvalidGraph) || !strings.Contains(err.Error(), "s: graph 2") {
		t.Errorf("got %v, want INVALID_GRAPH at s: graph 2", err)
	}
	if m.Total() != 1 {
		t.Errorf("map total %d, want 1", m.Total())
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 3} {
		_, err := newStreamer().Stream(ctx, source.Generate(5), NewMap(), StreamOptions{Workers: workers})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: got %v, want context.Canceled", workers, err)
		}
	}
}

func TestStreamParallelMatchesSequential(t *testing.T) {
	s := newStreamer()
	run := func(workers int) (*Map, Stats) {
		m := NewMap()
		stats, err := s.Stream(context.Background(), source.Generate(6), m, StreamOptions{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		stats.Duration = 0
		return m, stats
	}

	seq, seqStats := run(1)
	for _, workers := range []int{2, 8} {
		par, parStats := run(workers)
		if parStats != seqStats {
			t.Errorf("workers=%d: stats %+v, sequential %+v", workers, parStats, seqStats)
		}
		if !slices.Equal(par.Keys(), seq.Keys()) {
			t.Fatalf("workers=%d: keys %v, sequential %v", workers, par.Keys(), seq.Keys())
		}
		for _, k := range seq.Keys() {
			if !slices.Equal(graph6s(par.Bucket(k)), graph6s(seq.Bucket(k))) {
				t.Errorf("workers=%d: bucket %v differs from the sequential run", workers, k)
			}
		}
	}
	if seqStats.Examined != 156 {
		t.Errorf("examined %d graphs of order 6, want 156", seqStats.Examined)
	}
}

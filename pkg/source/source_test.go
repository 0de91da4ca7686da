package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func TestGeneratorCounts(t *testing.T) {
	// OEIS A000088 and A001349.
	all := []int{1, 1, 2, 4, 11, 34, 156, 1044}
	connected := []int{0, 1, 1, 2, 6, 21, 112, 853}

	for n := range all {
		if got := (Generator{}).Count(n); got != all[n] {
			t.Errorf("order %d: got %d graphs, want %d", n, got, all[n])
		}
		if got := (Generator{Connected: true}).Count(n); got != connected[n] {
			t.Errorf("order %d: got %d connected graphs, want %d", n, got, connected[n])
		}
	}
}

func TestGeneratorUpTo(t *testing.T) {
	counts := map[int]int{}
	for g := range (Generator{}).UpTo(5) {
		counts[g.Order()]++
	}
	want := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 11, 5: 34}
	for n, c := range want {
		if counts[n] != c {
			t.Errorf("order %d: got %d, want %d", n, counts[n], c)
		}
	}
}

func TestGeneratorDistinct(t *testing.T) {
	for n := 1; n <= 6; n++ {
		seen := map[string]string{}
		for g := range (Generator{}).All(n) {
			if g.Order() != n {
				t.Fatalf("order %d: yielded a graph of order %d", n, g.Order())
			}
			key := canon.Canonical(g).Key()
			if prev, dup := seen[key]; dup {
				t.Fatalf("order %d: %s and %s are isomorphic", n, prev, g.Graph6())
			}
			seen[key] = g.Graph6()
		}
	}
}

func TestGeneratorEarlyStop(t *testing.T) {
	n := 0
	for range (Generator{}).All(6) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d graphs after break, want 3", n)
	}
}

func TestGenerateSource(t *testing.T) {
	graphs, err := Collect(Generate(4))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(graphs) != 11 {
		t.Errorf("Generate(4) yielded %d graphs, want 11", len(graphs))
	}

	_, err = Collect(Generate(errs.MaxGeneratedOrder + 1))
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("oversized order: got %v, want INVALID_INPUT", err)
	}
}

func TestSliceAndAtlas(t *testing.T) {
	graphs := []*graph.Graph{graph.Empty(0), graph.Complete(1), graph.Path(2), graph.Path(3)}

	got, err := Collect(Slice("fixed", graphs))
	if err != nil || len(got) != 4 {
		t.Fatalf("Slice: got %d graphs, err %v", len(got), err)
	}

	cat := catalog(graphs)
	tests := []struct {
		from int
		want int
	}{
		{0, 4},
		{1, 3},
		{4, 0},
		{10, 0},
		{-1, 4},
	}
	for _, tt := range tests {
		got, _ := Collect(Atlas(cat, tt.from))
		if len(got) != tt.want {
			t.Errorf("Atlas(from=%d) yielded %d graphs, want %d", tt.from, len(got), tt.want)
		}
	}
	if first, _ := Collect(Atlas(cat, 1)); first[0].Order() != 1 {
		t.Errorf("Atlas(from=1) should start at K1")
	}
}

type catalog []*graph.Graph

func (c catalog) Len() int              { return len(c) }
func (c catalog) At(i int) *graph.Graph { return c[i] }

func TestGraph6Source(t *testing.T) {
	input := ">>graph6<<\n" + "Bw\n" + "\n" + "  C~  \n" + "Dhc\n"
	graphs, err := Collect(Graph6("test.g6", strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(graphs) != 3 {
		t.Fatalf("got %d graphs, want 3", len(graphs))
	}
	if graphs[0].Size() != 3 || graphs[1].Size() != 6 || graphs[2].Size() != 5 {
		t.Errorf("unexpected graphs: %s %s %s", graphs[0].Graph6(), graphs[1].Graph6(), graphs[2].Graph6())
	}
}

func TestGraph6SourceError(t *testing.T) {
	input := "Bw\nC~\nB~\nC~\n"
	var count int
	var err error
	for g, e := range Graph6("bad.g6", strings.NewReader(input)).Seq {
		if e != nil {
			err = e
			break
		}
		if g != nil {
			count++
		}
	}
	if count != 2 {
		t.Errorf("yielded %d graphs before the error, want 2", count)
	}
	if !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Fatalf("got %v, want INVALID_GRAPH", err)
	}
	if !strings.Contains(err.Error(), "bad.g6:3") {
		t.Errorf("error %q does not name the line", err)
	}
}

func TestGraph6File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph4.g6")
	if err := os.WriteFile(path, []byte("C~\nC]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := Graph6File(path)
	for range 2 {
		graphs, err := Collect(src)
		if err != nil || len(graphs) != 2 {
			t.Fatalf("Collect() = %d graphs, %v", len(graphs), err)
		}
	}

	_, err := Collect(Graph6File(filepath.Join(t.TempDir(), "missing.g6")))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/cliquecrit/pkg/cache"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	pkgio "github.com/matzehuels/cliquecrit/pkg/io"
	"github.com/matzehuels/cliquecrit/pkg/observability"
)

// smallOptions classifies the connected graphs of the order-4 atlas and
// every graph of order 5 without touching external tools.
func smallOptions() Options {
	return Options{
		Bound:         5,
		AtlasMaxOrder: 4,
		Sources: []SourceSpec{
			{Kind: SourceAtlas, Order: 1, FilterConnected: true},
			{Kind: SourceGenerate, Order: 5},
		},
		Formats: []string{FormatDOT, FormatJSON, FormatTOML},
		Output:  "table.pdf",
	}
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestLoadAtlasCaching(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	opts := Options{AtlasMaxOrder: 4}

	a, hit, err := r.LoadAtlasWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if hit {
		t.Error("first load should miss")
	}
	if a.Len() != 19 {
		t.Errorf("atlas has %d graphs, want 19", a.Len())
	}

	b, hit, err := r.LoadAtlasWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if !hit {
		t.Error("second load should hit")
	}
	for i := range a.Len() {
		if a.At(i).Graph6() != b.At(i).Graph6() {
			t.Fatalf("entry %d differs after cache round trip", i)
		}
	}

	opts.Refresh = true
	if _, hit, _ := r.LoadAtlasWithCacheInfo(ctx, opts); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestClassify(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	opts := smallOptions()

	a, err := r.LoadAtlas(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	m, stats, err := r.Classify(ctx, a, opts)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d source stats, want 2", len(stats))
	}
	if stats[0].Source != "atlas" || stats[1].Source != "order 5" {
		t.Errorf("sources = %s, %s", stats[0].Source, stats[1].Source)
	}
	// Atlas entries 1..18, of which 1+1+2+6 are connected.
	if stats[0].Examined != 18 || stats[0].Disconnected != 8 {
		t.Errorf("atlas examined %d, disconnected %d, want 18, 8", stats[0].Examined, stats[0].Disconnected)
	}
	if stats[1].Examined != 34 {
		t.Errorf("order 5 examined %d, want 34", stats[1].Examined)
	}

	accepted := 0
	for _, s := range stats {
		accepted += s.Accepted
		if got := s.Accepted + s.NotCritical + s.Indeterminate + s.Oversized + s.Disconnected; got != s.Examined {
			t.Errorf("%s: outcomes sum to %d, examined %d", s.Source, got, s.Examined)
		}
	}
	if m.Total() != accepted {
		t.Errorf("map holds %d graphs, stats accepted %d", m.Total(), accepted)
	}
	if accepted == 0 {
		t.Error("expected some clique-critical graphs")
	}
}

func TestClassifySourceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.g6")
	if err := os.WriteFile(path, []byte("A_\nnot graph6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	opts := Options{AtlasMaxOrder: 3, Sources: []SourceSpec{{Kind: SourceGraph6, Path: path}}}

	a, err := r.LoadAtlas(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	_, stats, err := r.Classify(context.Background(), a, opts)
	if !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Fatalf("got %v, want INVALID_GRAPH", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the source", err)
	}
	if len(stats) != 1 || stats[0].Examined != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestExecute(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Classified != result.Map.Total() || result.Report.Total() != result.Map.Total() {
		t.Errorf("classified %d, map %d, report %d", result.Stats.Classified, result.Map.Total(), result.Report.Total())
	}
	if result.Stats.Pages != len(result.Pages) || len(result.Pages) == 0 {
		t.Errorf("pages = %d", len(result.Pages))
	}

	byFormat := map[string]int{}
	for _, a := range result.Artifacts {
		byFormat[a.Format]++
	}
	if byFormat[FormatDOT] != len(result.Pages) {
		t.Errorf("got %d dot pages, want %d", byFormat[FormatDOT], len(result.Pages))
	}
	if byFormat[FormatJSON] != 1 || byFormat[FormatTOML] != 1 {
		t.Errorf("artifacts by format = %v", byFormat)
	}
	if result.Artifacts[0].Name != "table-001.dot" {
		t.Errorf("first artifact = %s", result.Artifacts[0].Name)
	}

	// The JSON artifact is a readable report of the same map.
	for _, a := range result.Artifacts {
		if a.Format != FormatJSON {
			continue
		}
		rep, err := pkgio.ReadJSON(strings.NewReader(string(a.Data)))
		if err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if rep.Hash() != result.Report.Hash() {
			t.Error("JSON artifact does not match the report")
		}
	}

	again, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.AtlasHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", again.CacheInfo)
	}
}

func TestRenderSavedReport(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	result, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Capacity: 2, Formats: []string{FormatDOT}, Output: "again"}
	artifacts, err := r.Render(ctx, result.Report, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, a := range artifacts {
		if !strings.HasPrefix(a.Name, "again-") {
			t.Errorf("artifact name %s", a.Name)
		}
		if n := strings.Count(string(a.Data), "subgraph cluster_"); n > 2 {
			t.Errorf("%s has %d graphs, capacity 2", a.Name, n)
		}
	}
}

type stageRecorder struct {
	mu     sync.Mutex
	stages []string
}

func (s *stageRecorder) OnStageStart(context.Context, string) {}

func (s *stageRecorder) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
}

func TestExecuteHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), smallOptions()); err != nil {
		t.Fatal(err)
	}
	got := strings.Join(rec.stages, ",")
	if want := "atlas,classify,paginate,render"; got != want {
		t.Errorf("stages = %s, want %s", got, want)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, smallOptions())
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("got %v, want context canceled", err)
	}
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/cache"
	"github.com/matzehuels/cliquecrit/pkg/classify"
	pkgio "github.com/matzehuels/cliquecrit/pkg/io"
	"github.com/matzehuels/cliquecrit/pkg/observability"
	"github.com/matzehuels/cliquecrit/pkg/page"
)

// Stage names reported to [observability.PipelineHooks].
const (
	StageAtlas    = "atlas"
	StageClassify = "classify"
	StagePaginate = "paginate"
	StageRender   = "render"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeAtlas    = "atlas"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete atlas → classify → paginate → render pipeline.
//
// A source failure stops the run. The returned error names the source and
// the 1-based position of the offending graph.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Atlas
	d, err := r.stage(ctx, StageAtlas, func() error {
		a, hit, err := r.LoadAtlasWithCacheInfo(ctx, opts)
		result.Atlas, result.CacheInfo.AtlasHit = a, hit
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}
	result.Stats.AtlasSize = result.Atlas.Len()
	result.Stats.AtlasTime = d

	r.Logger.Info("loaded atlas",
		"graphs", result.Atlas.Len(),
		"max_order", result.Atlas.MaxOrder(),
		"cached", result.CacheInfo.AtlasHit,
		"duration", d)

	// Stage 2: Classify
	d, err = r.stage(ctx, StageClassify, func() error {
		m, stats, err := r.Classify(ctx, result.Atlas, opts)
		result.Map, result.Stats.Sources = m, stats
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	result.Stats.ClassifyTime = d
	result.Stats.Buckets = result.Map.Len()
	result.Stats.Classified = result.Map.Total()
	result.Report = pkgio.NewReport(result.Map, opts.Capacity, result.Atlas.MaxOrder(), result.Stats.Sources)

	r.Logger.Info("classified candidates",
		"sources", len(result.Stats.Sources),
		"buckets", result.Stats.Buckets,
		"graphs", result.Stats.Classified,
		"duration", d)

	// Stage 3: Paginate
	_, _ = r.stage(ctx, StagePaginate, func() error {
		result.Pages = r.Paginate(result.Map, opts)
		return nil
	})
	result.Stats.Pages = len(result.Pages)

	// Stage 4: Render
	d, err = r.stage(ctx, StageRender, func() error {
		artifacts, hit, err := r.renderPages(ctx, result.Report, result.Pages, opts)
		result.Artifacts, result.CacheInfo.RenderHit = artifacts, hit
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = d

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"pages", result.Stats.Pages,
		"cached", result.CacheInfo.RenderHit,
		"duration", d)

	return result, nil
}

// stage runs fn between the pipeline hooks and returns its duration.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, d, err)
	return d, err
}

// =============================================================================
// Atlas
// =============================================================================

// LoadAtlasWithCacheInfo builds the atlas with caching and returns cache hit info.
// Cache failures are logged and never fatal.
func (r *Runner) LoadAtlasWithCacheInfo(ctx context.Context, opts Options) (*atlas.Atlas, bool, error) {
	if err := opts.ValidateForClassify(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.AtlasKey(opts.AtlasMaxOrder)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			hooks.OnCacheError(ctx, keyTypeAtlas, err)
			r.Logger.Warn("atlas cache unavailable", "error", err)
		case hit:
			a, err := atlas.Parse(data)
			if err == nil && a.MaxOrder() == opts.AtlasMaxOrder {
				hooks.OnCacheHit(ctx, keyTypeAtlas)
				return a, true, nil
			}
			if err == nil {
				err = fmt.Errorf("max order %d, want %d", a.MaxOrder(), opts.AtlasMaxOrder)
			}
			// Fall through and regenerate
			err = fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
			hooks.OnCacheError(ctx, keyTypeAtlas, err)
			r.Logger.Warn("discarding unreadable atlas cache entry", "error", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeAtlas)
	}

	a, err := atlas.Generate(opts.AtlasMaxOrder)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := a.MarshalText(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLAtlas); err != nil {
			hooks.OnCacheError(ctx, keyTypeAtlas, err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeAtlas, len(data))
		}
	}

	return a, false, nil
}

// LoadAtlas is a convenience wrapper that calls LoadAtlasWithCacheInfo and discards the cache hit info.
func (r *Runner) LoadAtlas(ctx context.Context, opts Options) (*atlas.Atlas, error) {
	a, _, err := r.LoadAtlasWithCacheInfo(ctx, opts)
	return a, err
}

// =============================================================================
// Classify and Paginate
// =============================================================================

// Classify streams every source of opts, in order, into one cumulative
// map. Statistics are returned per source, including the failing one.
func (r *Runner) Classify(ctx context.Context, a *atlas.Atlas, opts Options) (*classify.Map, []classify.Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForClassify(); err != nil {
		return nil, nil, err
	}

	streamer := &classify.Streamer{
		Tester:     opts.tester(),
		Classifier: classify.NewClassifier(a),
		Threshold:  opts.Threshold,
		Logger:     opts.Logger,
	}

	m := classify.NewMap()
	var all []classify.Stats
	for _, spec := range opts.Sources {
		src := Open(spec, a)
		r.Logger.Debug("streaming source", "source", src.Name, "filter_connected", spec.FilterConnected)

		stats, err := streamer.Stream(ctx, src, m, classify.StreamOptions{
			FilterConnected: spec.FilterConnected,
			Workers:         opts.Workers,
			ProgressEvery:   opts.ProgressEvery,
		})
		all = append(all, stats)
		if err != nil {
			return m, all, err
		}

		r.Logger.Info("classified source",
			"source", stats.Source,
			"examined", stats.Examined,
			"accepted", stats.Accepted,
			"duration", stats.Duration)
	}
	return m, all, nil
}

// Paginate splits m into pages of opts.Capacity graphs.
func (r *Runner) Paginate(m *classify.Map, opts Options) []page.Page {
	opts.SetRenderDefaults()
	pages := page.Paginate(m, opts.Capacity)
	r.Logger.Debug("paginated", "buckets", m.Len(), "pages", len(pages), "capacity", opts.Capacity)
	return pages
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders a saved report and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, report *pkgio.Report, opts Options) ([]Artifact, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	m, err := report.Map()
	if err != nil {
		return nil, false, err
	}
	return r.renderPages(ctx, report, r.Paginate(m, opts), opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, report *pkgio.Report, opts Options) ([]Artifact, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, report, opts)
	return artifacts, err
}

// renderPages renders every requested format. Page formats are cached by
// report content; report formats carry the run ID and are always rebuilt.
func (r *Runner) renderPages(ctx context.Context, report *pkgio.Report, pages []page.Page, opts Options) ([]Artifact, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	if len(pages) == 0 && opts.HasPageFormat() {
		r.Logger.Warn("no graphs classified; skipping page formats")
	}

	hooks := observability.Cache()
	rd := newRenderer(pages, opts)
	reportHash := report.Hash()

	var artifacts []Artifact
	cacheable, hits := 0, 0
	for _, format := range opts.Formats {
		if !isPageFormat(format) {
			a, err := renderReport(report, format, opts)
			if err != nil {
				return nil, false, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts = append(artifacts, a)
			continue
		}
		if len(pages) == 0 {
			continue
		}

		cacheable++
		cacheKey := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if cached, ok := r.cachedArtifacts(ctx, cacheKey); ok {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts = append(artifacts, cached...)
				hits++
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}

		out, err := rd.render(ctx, format)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts = append(artifacts, out...)

		// Cache each format
		if data, err := json.Marshal(out); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
				hooks.OnCacheError(ctx, keyTypeArtifact, err)
			} else {
				hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
			}
		}
	}

	return artifacts, cacheable > 0 && hits == cacheable, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, key string) ([]Artifact, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, keyTypeArtifact, err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var out []Artifact
	if err := json.Unmarshal(data, &out); err != nil || len(out) == 0 {
		observability.Cache().OnCacheError(ctx, keyTypeArtifact, fmt.Errorf("%w: %s", cache.ErrCorrupt, key))
		return nil, false
	}
	return out, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

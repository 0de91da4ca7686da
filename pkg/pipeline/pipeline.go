// Package pipeline runs the cliquecrit classification pipeline.
//
// This package implements the complete atlas → classify → paginate → render
// pipeline used by the CLI. Centralizing it here keeps defaults, caching and
// statistics consistent for every entry point.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Atlas: Build (or load from cache) the canonical atlas of small graphs
//  2. Classify: Stream every candidate source into one classification map
//  3. Paginate: Split the buckets into fixed-capacity pages
//  4. Render: Produce the paged document and any secondary formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"pdf"}}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Name, a.Data, 0o644)
//	}
//
// Run individual stages:
//
//	a, err := runner.LoadAtlas(ctx, opts)
//	m, stats, err := runner.Classify(ctx, a, opts)
//	pages := runner.Paginate(m, opts)
//	artifacts, err := runner.Render(ctx, report, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/cache"
	"github.com/matzehuels/cliquecrit/pkg/classify"
	"github.com/matzehuels/cliquecrit/pkg/critical"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	pkgio "github.com/matzehuels/cliquecrit/pkg/io"
	"github.com/matzehuels/cliquecrit/pkg/page"
	"github.com/matzehuels/cliquecrit/pkg/render/nodelink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the document written when no output is given.
	DefaultOutput = "graph_table.pdf"

	// DefaultLayout is the Graphviz engine used for pages.
	DefaultLayout = nodelink.DefaultLayout

	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// DefaultOrders are the candidate orders enumerated beyond the atlas.
var DefaultOrders = []int{8, 9, 10}

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatTOML: true,
}

// Source kinds for [SourceSpec].
const (
	SourceAtlas    = "atlas"
	SourceGraph6   = "graph6"
	SourceGenerate = "generate"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// SourceSpec describes one candidate source.
type SourceSpec struct {
	// Kind is SourceAtlas, SourceGraph6 or SourceGenerate.
	Kind string `json:"kind"`

	// Path is the graph6 file for SourceGraph6.
	Path string `json:"path,omitempty"`

	// Order is the vertex count for SourceGenerate, the first atlas index
	// for SourceAtlas, and a display label for SourceGraph6.
	Order int `json:"order,omitempty"`

	// FilterConnected skips disconnected candidates.
	FilterConnected bool `json:"filter_connected,omitempty"`
}

// Options contains all configuration for the pipeline.
type Options struct {
	// Bound limits maximal-clique enumeration in the criticality test.
	// 0 means unbounded; the CLI default is critical.DefaultBound.
	Bound int `json:"bound"`

	// Classify options
	Threshold     int          `json:"threshold,omitempty"`
	AtlasMaxOrder int          `json:"atlas_max_order,omitempty"`
	Workers       int          `json:"workers,omitempty"`
	ProgressEvery int          `json:"progress_every,omitempty"`
	Sources       []SourceSpec `json:"sources,omitempty"`

	// Render options
	Capacity int      `json:"capacity,omitempty"`
	Output   string   `json:"output,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Layout   string   `json:"layout,omitempty"`

	// Refresh ignores cached entries and rebuilds them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Atlas is the reference catalogue the run classified against.
	Atlas *atlas.Atlas

	// Map holds the classified graphs.
	Map *classify.Map

	// Pages is the paginated map.
	Pages []page.Page

	// Report is the serializable form of Map.
	Report *pkgio.Report

	// Artifacts contains rendered outputs in format order.
	Artifacts []Artifact

	// Stats contains timing and count information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AtlasSize    int
	Sources      []classify.Stats
	Buckets      int
	Classified   int
	Pages        int
	AtlasTime    time.Duration
	ClassifyTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AtlasHit  bool // Whether the atlas came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: pdf, svg, png, dot, json, toml)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that a source spec is complete.
func ValidateSource(s SourceSpec) error {
	switch s.Kind {
	case SourceAtlas:
		if s.Order < 0 {
			return errs.New(errs.ErrCodeInvalidInput, "atlas source: negative start index %d", s.Order)
		}
	case SourceGraph6:
		if s.Path == "" {
			return errs.New(errs.ErrCodeInvalidInput, "graph6 source: path is required")
		}
	case SourceGenerate:
		return errs.ValidateOrder(s.Order)
	default:
		return errs.New(errs.ErrCodeInvalidInput, "invalid source kind: %q (must be one of: atlas, graph6, generate)", s.Kind)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForClassify(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForClassify validates and sets defaults for the atlas and
// classify stages.
func (o *Options) ValidateForClassify() error {
	if o.Bound < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "bound must be >= 0, got %d", o.Bound)
	}
	if o.Threshold <= 0 {
		o.Threshold = classify.DefaultThreshold
	}
	if o.AtlasMaxOrder == 0 {
		o.AtlasMaxOrder = atlas.DefaultMaxOrder
	}
	if o.AtlasMaxOrder < 0 || o.AtlasMaxOrder > atlas.MaxOrder {
		return errs.New(errs.ErrCodeInvalidInput, "atlas_max_order must be in 1..%d, got %d", atlas.MaxOrder, o.AtlasMaxOrder)
	}
	if len(o.Sources) == 0 {
		o.Sources = DefaultSources("")
	}
	for _, s := range o.Sources {
		if err := ValidateSource(s); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Capacity <= 0 {
		o.Capacity = page.DefaultCapacity
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errs.ValidatePath(o.Output); err != nil {
		return err
	}
	return nodelink.ValidateLayout(o.Layout)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Stem returns the output file name without directory and extension.
// Secondary artifacts are named after it.
func (o *Options) Stem() string {
	base := filepath.Base(o.Output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Layout:   o.Layout,
		Capacity: o.Capacity,
	}
}

// tester builds the criticality tester for o.Bound.
func (o *Options) tester() *critical.Tester {
	t := critical.NewTester()
	t.Bound = o.Bound
	return t
}

// Package config loads cliquecrit settings from layered sources.
//
// Priority: Flags > Env > Config File > Defaults.
//
// The config file is TOML. Environment variables use the CLIQUECRIT_
// prefix and the lower-cased key, e.g. CLIQUECRIT_ATLAS_MAX_ORDER=6.
// Command-line flags use the key with dashes, e.g. --atlas-max-order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

const (
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "CLIQUECRIT_"

	// DefaultFile is read from the working directory when no --config is
	// given. A missing default file is not an error.
	DefaultFile = "cliquecrit.toml"
)

// Config holds every setting of a classification run.
type Config struct {
	// Bound is the largest maximal-clique count the criticality tester
	// enumerates before giving up. 0 means unbounded.
	Bound int `koanf:"bound"`

	// Threshold is the largest clique-graph order that is classified.
	Threshold int `koanf:"threshold"`

	// AtlasMaxOrder is the largest order in the atlas.
	AtlasMaxOrder int `koanf:"atlas_max_order"`

	// Capacity is the number of graphs per page.
	Capacity int `koanf:"capacity"`

	// Workers is the number of concurrent criticality testers.
	Workers int `koanf:"workers"`

	// ProgressEvery sets the progress log interval; negative disables it.
	ProgressEvery int `koanf:"progress_every"`

	// Graph6Dir holds graph<n>.g6 files that replace the generator for
	// order n.
	Graph6Dir string `koanf:"graph6_dir"`

	// Orders lists the candidate orders enumerated beyond the atlas.
	Orders []int `koanf:"orders"`

	// Atlas includes the connected atlas graphs as a candidate source.
	Atlas bool `koanf:"atlas"`

	Output  string   `koanf:"output"`
	Formats []string `koanf:"formats"`
	Layout  string   `koanf:"layout"`

	NoCache  bool   `koanf:"no_cache"`
	Refresh  bool   `koanf:"refresh"`
	CacheDir string `koanf:"cache_dir"`

	// RedisAddr selects a shared Redis cache instead of the file cache.
	RedisAddr string `koanf:"redis_addr"`

	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Bound:         5,
		Threshold:     5,
		AtlasMaxOrder: 7,
		Capacity:      6,
		Workers:       runtime.GOMAXPROCS(0),
		ProgressEvery: 10000,
		Orders:        []int{8, 9, 10},
		Atlas:         true,
		Output:        "graph_table.pdf",
		Formats:       []string{"pdf"},
		Layout:        "fdp",
	}
}

func (c Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"bound":           c.Bound,
		"threshold":       c.Threshold,
		"atlas_max_order": c.AtlasMaxOrder,
		"capacity":        c.Capacity,
		"workers":         c.Workers,
		"progress_every":  c.ProgressEvery,
		"graph6_dir":      c.Graph6Dir,
		"orders":          c.Orders,
		"atlas":           c.Atlas,
		"output":          c.Output,
		"formats":         c.Formats,
		"layout":          c.Layout,
		"no_cache":        c.NoCache,
		"refresh":         c.Refresh,
		"cache_dir":       c.CacheDir,
		"redis_addr":      c.RedisAddr,
		"metrics_addr":    c.MetricsAddr,
	}
}

// AddFlags registers one flag per key on flags, with the built-in defaults.
func AddFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.Int("bound", d.Bound, "maximal-clique enumeration bound (0 = unbounded)")
	flags.Int("threshold", d.Threshold, "largest clique-graph order to classify")
	flags.Int("atlas-max-order", d.AtlasMaxOrder, "largest graph order in the atlas")
	flags.Int("capacity", d.Capacity, "graphs per page")
	flags.Int("workers", d.Workers, "concurrent criticality testers")
	flags.Int("progress-every", d.ProgressEvery, "log progress every N graphs (negative disables)")
	flags.String("graph6-dir", d.Graph6Dir, "directory with graph<n>.g6 candidate files")
	flags.IntSlice("orders", d.Orders, "candidate orders beyond the atlas")
	flags.Bool("atlas", d.Atlas, "include connected atlas graphs as candidates")
	flags.StringP("output", "o", d.Output, "output file (pdf) or directory prefix")
	flags.StringSlice("formats", d.Formats, "output formats: pdf, svg, png, dot, json, toml")
	flags.String("layout", d.Layout, "graphviz layout engine")
	flags.Bool("no-cache", d.NoCache, "disable caching")
	flags.Bool("refresh", d.Refresh, "ignore cached entries and rebuild them")
	flags.String("cache-dir", d.CacheDir, "cache directory (default: XDG cache home)")
	flags.String("redis-addr", d.RedisAddr, "use a Redis cache at host:port")
	flags.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on this address")
}

// Load merges defaults, the TOML file at path, CLIQUECRIT_* environment
// variables and the changed flags. An empty path reads DefaultFile if it
// exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(mapProvider(Defaults().toMap()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config file %s", path)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Zero values that mean "default" downstream
// are accepted.
func (c *Config) Validate() error {
	switch {
	case c.Bound < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "bound must be >= 0, got %d", c.Bound)
	case c.Threshold < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "threshold must be >= 0, got %d", c.Threshold)
	case c.AtlasMaxOrder < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "atlas_max_order must be >= 0, got %d", c.AtlasMaxOrder)
	case c.Capacity < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "capacity must be >= 0, got %d", c.Capacity)
	case c.Workers < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "workers must be >= 0, got %d", c.Workers)
	case c.NoCache && c.RedisAddr != "":
		return errs.New(errs.ErrCodeInvalidConfig, "no_cache and redis_addr are mutually exclusive")
	}
	for _, n := range c.Orders {
		if n < 0 {
			return errs.New(errs.ErrCodeInvalidConfig, "orders must be >= 0, got %d", n)
		}
	}
	return nil
}

// mapProvider feeds a plain map to koanf.
type mapProvider map[string]interface{}

func (p mapProvider) Read() (map[string]interface{}, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}

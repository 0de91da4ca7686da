// Package cli implements the cliquecrit command-line interface.
//
// This package provides commands for classifying clique-critical graphs,
// rendering saved classification reports, testing individual graphs, and
// inspecting the atlas and the cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - classify: Run the full pipeline and write the graph table
//   - render: Render a saved classification report
//   - test: Decide clique-criticality of individual graphs
//   - atlas: Show the atlas or look graphs up in it
//   - generate: Enumerate all graphs of an order as graph6
//   - cache: Manage the atlas and artifact cache
//
// # Configuration
//
// Settings come from flags, CLIQUECRIT_* environment variables, and a TOML
// file (--config, default ./cliquecrit.toml), in that order of priority.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cliquecrit/pkg/buildinfo"
	"github.com/matzehuels/cliquecrit/pkg/cache"
	"github.com/matzehuels/cliquecrit/pkg/config"
	"github.com/matzehuels/cliquecrit/pkg/metrics"
	"github.com/matzehuels/cliquecrit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cliquecrit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Execute runs the CLI with the process arguments. ctx should be cancelled
// on interrupt; the returned error then wraps context.Canceled.
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cliquecrit finds and tabulates clique-critical graphs",
		Long:         `cliquecrit enumerates small graphs, keeps those that are clique-critical, groups them by the atlas index of their clique graph, and renders the groups as a paged table.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+")")

	// Register all subcommands
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.testCommand())
	root.AddCommand(c.atlasCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig merges the config file, environment and the flags of cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(c.configPath, cmd.Flags())
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Entries written by one release are not read by another.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.NoCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Prefix: appName + ":"})
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// startMetrics serves Prometheus metrics until ctx ends when addr is set.
func (c *CLI) startMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	reg := prometheus.NewRegistry()
	metrics.New(reg).Install()
	go func() {
		if err := metrics.Serve(ctx, addr, metrics.Handler(reg), c.Logger); err != nil {
			c.Logger.Warn("metrics server stopped", "error", err)
		}
	}()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cliquecrit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions maps a loaded configuration onto pipeline options.
func pipelineOptions(cfg *config.Config, logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		Bound:         cfg.Bound,
		Threshold:     cfg.Threshold,
		AtlasMaxOrder: cfg.AtlasMaxOrder,
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Sources:       pipeline.Sources(cfg.Atlas, cfg.Graph6Dir, cfg.Orders),
		Capacity:      cfg.Capacity,
		Output:        cfg.Output,
		Formats:       cfg.Formats,
		Layout:        cfg.Layout,
		Refresh:       cfg.Refresh,
		Logger:        logger,
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cliquecrit/pkg/config"
	pkgio "github.com/matzehuels/cliquecrit/pkg/io"
	"github.com/matzehuels/cliquecrit/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <report.json>",
		Short: "Render a saved classification report",
		Long: `Render paginates a report written by "classify --formats json" and draws it
again, for example with another layout, capacity or output format.

The page capacity defaults to the one recorded in the report.`,
		Example: `  cliquecrit render graph_table.json --formats svg --layout neato`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, cmd.Flags().Changed("capacity"))
		},
	}

	d := config.Defaults()
	flags := cmd.Flags()
	flags.StringP("output", "o", d.Output, "output file (pdf) or directory prefix")
	flags.StringSlice("formats", d.Formats, "output formats: pdf, svg, png, dot, json, toml")
	flags.String("layout", d.Layout, "graphviz layout engine")
	flags.Int("capacity", d.Capacity, "graphs per page (default: from report)")
	flags.Bool("no-cache", false, "disable caching")
	flags.Bool("refresh", false, "ignore cached artifacts and rebuild them")
	flags.String("cache-dir", "", "cache directory (default: XDG cache home)")
	flags.String("redis-addr", "", "use a Redis cache at host:port")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, cfg *config.Config, capacitySet bool) error {
	logger := loggerFromContext(ctx)

	report, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded report", "run_id", report.RunID, "graphs", report.Total(), "buckets", len(report.Buckets))

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{
		Capacity: report.Capacity,
		Output:   cfg.Output,
		Formats:  cfg.Formats,
		Layout:   cfg.Layout,
		Refresh:  cfg.Refresh,
		Logger:   logger,
	}
	if capacitySet {
		opts.Capacity = cfg.Capacity
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d graphs...", report.Total()))
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, report, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(opts.Output, artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %d files", len(paths))
	printStats(report.Total(), 0, hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cliquecrit/pkg/config"
	"github.com/matzehuels/cliquecrit/pkg/pipeline"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify clique-critical graphs and render the graph table",
		Long: `Classify enumerates candidate graphs, keeps the clique-critical ones whose
clique graph is small enough, groups them by the atlas index of their clique
graph, and renders the groups as a paged document.

Candidates are the connected atlas graphs followed by every graph of each
order in --orders. An order is read from <graph6-dir>/graph<n>.g6 when that
file exists and generated otherwise.`,
		Example: `  # Default run: writes graph_table.pdf
  cliquecrit classify

  # Smaller run, keep the report for later rendering
  cliquecrit classify --orders 8 --formats pdf,json -o out/table.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runClassify(cmd, cfg)
		},
	}

	config.AddFlags(cmd.Flags())
	return cmd
}

func (c *CLI) runClassify(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	c.startMetrics(ctx, cfg.MetricsAddr)

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipelineOptions(cfg, logger)
	prog := newProgress(logger).track()
	defer prog.untrack()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Classified %d graphs into %d buckets", result.Stats.Classified, result.Stats.Buckets))

	printNewline()
	printSourceTable(result.Stats.Sources)
	printStats(result.Stats.Classified, result.Stats.Pages, result.CacheInfo.RenderHit)
	if result.Stats.Classified == 0 {
		printWarning("No clique-critical graphs found; nothing to draw")
	}

	paths, err := writeArtifacts(cfg.Output, result.Artifacts)
	if err != nil {
		return err
	}
	printNewline()
	printSuccess("Wrote %d files", len(paths))
	for _, p := range paths {
		printFile(p)
	}

	for _, p := range paths {
		if filepath.Ext(p) == ".json" {
			printNewline()
			printNextStep("Render again", fmt.Sprintf("%s render %s", appName, p))
			break
		}
	}
	return nil
}

// writeArtifacts writes artifacts next to output and returns their paths.
func writeArtifacts(output string, artifacts []pipeline.Artifact) ([]string, error) {
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

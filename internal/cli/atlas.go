package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/config"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/pipeline"
)

// atlasCommand creates the atlas command.
func (c *CLI) atlasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Show the graph atlas",
		Long: `Atlas builds (or loads from cache) the atlas of all graphs up to the given
order and prints the number of graphs of each order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, hit, err := c.loadAtlas(cmd)
			if err != nil {
				return err
			}
			printAtlas(a, hit)
			return nil
		},
	}
	addAtlasFlags(cmd)

	cmd.AddCommand(c.atlasLookupCommand())
	return cmd
}

// atlasLookupCommand creates the "atlas lookup" subcommand.
func (c *CLI) atlasLookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lookup <graph6>...",
		Short:   "Print the atlas index of each graph",
		Example: `  cliquecrit atlas lookup Bw 'D~{'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := c.loadAtlas(cmd)
			if err != nil {
				return err
			}
			for i, s := range args {
				g, err := graph.ParseGraph6(s)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInvalidGraph, err, "argument %d", i+1)
				}
				if idx, ok := a.Lookup(g); ok {
					printKeyValue(s, StyleNumber.Render(strconv.Itoa(idx)))
				} else {
					printKeyValue(s, StyleDim.Render("not in atlas"))
				}
			}
			return nil
		},
	}
	addAtlasFlags(cmd)
	return cmd
}

func addAtlasFlags(cmd *cobra.Command) {
	d := config.Defaults()
	flags := cmd.Flags()
	flags.Int("atlas-max-order", d.AtlasMaxOrder, "largest graph order in the atlas")
	flags.Bool("no-cache", false, "disable caching")
	flags.Bool("refresh", false, "rebuild the cached atlas")
	flags.String("cache-dir", "", "cache directory (default: XDG cache home)")
	flags.String("redis-addr", "", "use a Redis cache at host:port")
}

func (c *CLI) loadAtlas(cmd *cobra.Command) (*atlas.Atlas, bool, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, false, err
	}
	return c.loadAtlasWithConfig(cmd.Context(), cfg)
}

func (c *CLI) loadAtlasWithConfig(ctx context.Context, cfg *config.Config) (*atlas.Atlas, bool, error) {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building atlas up to order %d...", cfg.AtlasMaxOrder))
	spinner.Start()
	a, hit, err := runner.LoadAtlasWithCacheInfo(ctx, pipeline.Options{
		AtlasMaxOrder: cfg.AtlasMaxOrder,
		Refresh:       cfg.Refresh,
		Logger:        loggerFromContext(ctx),
	})
	spinner.Stop()
	return a, hit, err
}

func printAtlas(a *atlas.Atlas, cached bool) {
	printInfo("Atlas of graphs up to order %d", a.MaxOrder())
	for n, count := range a.CountByOrder() {
		printKeyValue(fmt.Sprintf("order %d", n), StyleNumber.Render(strconv.Itoa(count)))
	}
	printKeyValue("total", StyleValue.Render(strconv.Itoa(a.Len())))
	printStats(a.Len(), 0, cached)
}

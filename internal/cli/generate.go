package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output    string
		connected bool
		header    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <n>",
		Short: "Write all graphs of order n as graph6",
		Long: `Generate enumerates every graph with n vertices exactly once up to
isomorphism and writes one graph6 line per graph. The output can be placed in
the graph6 directory as graph<n>.g6 to skip generation in later runs.`,
		Example: `  cliquecrit generate 8 -o graphs/graph8.g6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.New(errs.ErrCodeInvalidInput, "order must be an integer, got %q", args[0])
			}
			if err := errs.ValidateOrder(n); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			count, err := writeGraphs(w, source.Generator{Connected: connected}, n, header)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generated %d graphs of order %d", count, n))
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&connected, "connected", false, "only connected graphs")
	cmd.Flags().BoolVar(&header, "header", false, "start with the >>graph6<< header")

	return cmd
}

func writeGraphs(w io.Writer, gen source.Generator, n int, header bool) (int, error) {
	bw := bufio.NewWriter(w)
	if header {
		bw.WriteString(graph.Graph6Header)
	}
	count := 0
	for g := range gen.All(n) {
		bw.WriteString(g.Graph6())
		bw.WriteByte('\n')
		count++
	}
	return count, bw.Flush()
}

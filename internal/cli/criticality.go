package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cliquecrit/pkg/canon"
	"github.com/matzehuels/cliquecrit/pkg/critical"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// testCommand creates the test command.
func (c *CLI) testCommand() *cobra.Command {
	var (
		bound  int
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "test <graph6>...",
		Short: "Decide whether graphs are clique-critical",
		Long: `Test runs the criticality test on each graph and prints the verdict and the
order of its clique graph.

With --verify the test is repeated with a brute-force isomorphism check
(graphs up to 10 vertices) and any disagreement is reported as an error.`,
		Example: `  cliquecrit test Bw Cl 'D~{'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs := make([]*graph.Graph, len(args))
			for i, s := range args {
				g, err := graph.ParseGraph6(s)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInvalidGraph, err, "argument %d", i+1)
				}
				graphs[i] = g
			}
			return runTest(cmd.OutOrStdout(), args, graphs, bound, verify)
		},
	}

	cmd.Flags().IntVar(&bound, "bound", critical.DefaultBound, "maximal-clique enumeration bound (0 = unbounded)")
	cmd.Flags().BoolVar(&verify, "verify", false, "cross-check with brute-force isomorphism")

	return cmd
}

// exhaustiveIso is an isomorphism oracle that tries every bijection for
// small graphs and falls back to canonical forms above the limit.
type exhaustiveIso struct{}

func (exhaustiveIso) Isomorphic(a, b *graph.Graph) bool {
	if iso, ok := canon.ExhaustiveIsomorphic(a, b); ok {
		return iso
	}
	return canon.Isomorphic(a, b)
}

func runTest(w io.Writer, names []string, graphs []*graph.Graph, bound int, verify bool) error {
	tester := critical.NewTester()
	tester.Bound = bound

	var check *critical.Tester
	if verify {
		check = &critical.Tester{Cliques: tester.Cliques, Iso: exhaustiveIso{}, Bound: bound}
	}

	rows := make([][]string, 0, len(graphs))
	for i, g := range graphs {
		out, err := tester.Test(g)
		if err != nil {
			return err
		}
		if check != nil {
			ref, err := check.Test(g)
			if err != nil {
				return err
			}
			if ref.Verdict != out.Verdict {
				return errs.New(errs.ErrCodeInternal, "%s: verdict %s, brute force says %s", names[i], out.Verdict, ref.Verdict)
			}
		}

		order := "-"
		if out.CliqueGraph != nil {
			order = strconv.Itoa(out.CliqueGraph.Order())
		}
		rows = append(rows, []string{
			names[i],
			strconv.Itoa(g.Order()),
			strconv.Itoa(g.Size()),
			out.Verdict.String(),
			order,
		})
	}

	fmt.Fprintln(w, verdictTable(rows))
	return nil
}

func verdictTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("graph6", "n", "m", "verdict", "|K(G)|").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 3 {
				switch rows[row][col] {
				case critical.Critical.String():
					return cell.Foreground(colorGreen)
				case critical.Indeterminate.String():
					return cell.Foreground(colorYellow)
				}
				return cell.Foreground(colorGray)
			}
			if col == 0 {
				return cell.Foreground(colorWhite)
			}
			return cell
		})
	return strings.TrimRight(t.Render(), "\n")
}

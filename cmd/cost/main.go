// Command cost is the CLI surface for the github.com/graphcost/cost
// toolkit: it opens one of the three on-disk edge representations and
// runs a graph algorithm, a format conversion, a merge, or a text
// ingestion pass over it.
//
// Status and result lines are written to stdout; a non-nil error from
// any subcommand maps to exit code 1, following the teacher's own
// benchmark_compare.go CLI idiom of plain fmt.Println/Fprintf output
// with no structured-logging layer.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphcost/cost"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cost:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cost",
		Short:         "single-machine graph-streaming toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var alpha float32
	var iterations int

	pagerankCmd := &cobra.Command{
		Use:   "pagerank (vertex|hilbert|compressed) <prefix>",
		Short: "run PageRank over a graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMapper(args[0], args[1], func(m cost.Mapper) error {
				st, err := cost.ComputeStats(m)
				if err != nil {
					return err
				}
				return withMapper(args[0], args[1], func(m2 cost.Mapper) error {
					rank, err := cost.PageRank(m2, st.NumVertices, alpha, iterations)
					if err != nil {
						return err
					}
					for v, r := range rank {
						fmt.Printf("%d\t%g\n", v, r)
					}
					return nil
				})
			})
		},
	}
	pagerankCmd.Flags().Float32Var(&alpha, "alpha", cost.DefaultDamping, "PageRank damping factor")
	pagerankCmd.Flags().IntVar(&iterations, "iterations", cost.DefaultIterations, "number of PageRank iterations")

	labelPropCmd := &cobra.Command{
		Use:   "label_prop (vertex|hilbert|compressed) <prefix>",
		Short: "run label propagation over a graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMapper(args[0], args[1], func(m cost.Mapper) error {
				st, err := cost.ComputeStats(m)
				if err != nil {
					return err
				}
				return withMapper(args[0], args[1], func(m2 cost.Mapper) error {
					labels, err := cost.LabelPropagation(m2, st.NumVertices)
					if err != nil {
						return err
					}
					for v, l := range labels {
						fmt.Printf("%d\t%d\n", v, l)
					}
					return nil
				})
			})
		},
	}

	unionFindCmd := &cobra.Command{
		Use:   "union_find (vertex|hilbert|compressed) <prefix>",
		Short: "run union-find over a graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMapper(args[0], args[1], func(m cost.Mapper) error {
				st, err := cost.ComputeStats(m)
				if err != nil {
					return err
				}
				return withMapper(args[0], args[1], func(m2 cost.Mapper) error {
					roots, err := cost.UnionFind(m2, st.NumVertices)
					if err != nil {
						return err
					}
					for v, r := range roots {
						fmt.Printf("%d\t%d\n", v, r)
					}
					return nil
				})
			})
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats (vertex|hilbert|compressed) <prefix>",
		Short: "print graph statistics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMapper(args[0], args[1], func(m cost.Mapper) error {
				st, err := cost.ComputeStats(m)
				if err != nil {
					return err
				}
				fmt.Printf("edges\t%d\n", st.NumEdges)
				fmt.Printf("vertices\t%d\n", st.NumVertices)
				fmt.Printf("max_degree\t%d\n", st.MaxDegree)
				return nil
			})
		},
	}

	printCmd := &cobra.Command{
		Use:   "print (vertex|hilbert|compressed) <prefix>",
		Short: "print every edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMapper(args[0], args[1], func(m cost.Mapper) error {
				w := bufio.NewWriter(os.Stdout)
				if err := cost.Print(m, w); err != nil {
					return err
				}
				return w.Flush()
			})
		},
	}

	var dense bool
	toHilbertCmd := &cobra.Command{
		Use:   "to_hilbert <prefix>",
		Short: "convert a vertex-ordered graph to the Hilbert-tile representation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := args[0]
			m, err := cost.OpenVertex(prefix)
			if err != nil {
				return err
			}
			defer closeWarn(m)
			return cost.ConvertToTile(m, prefix, dense)
		},
	}
	toHilbertCmd.Flags().BoolVar(&dense, "dense", false, "use the lower-memory dense converter (256 passes over the input)")

	parseToHilbertCmd := &cobra.Command{
		Use:   "parse_to_hilbert",
		Short: "read whitespace-separated src/dst pairs from stdin, write a delta-compressed Hilbert stream to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cost.ParseToHilbert(os.Stdin, os.Stdout)
		},
	}

	mergeCmd := &cobra.Command{
		Use:   "merge <source>...",
		Short: "k-way merge delta-compressed Hilbert streams, writing the result to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cost.Merge(args, os.Stdout)
		},
	}

	twitterCmd := &cobra.Command{
		Use:   "twitter <from> <prefix>",
		Short: "ingest whitespace-separated src/dst pairs from a file into a vertex-ordered graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("cost: twitter: %w", err)
			}
			defer f.Close()
			return cost.ParseToVertex(f, args[1])
		},
	}

	root.AddCommand(pagerankCmd, labelPropCmd, unionFindCmd, statsCmd, printCmd,
		toHilbertCmd, parseToHilbertCmd, mergeCmd, twitterCmd)
	return root
}

// withMapper opens the representation named by kind ("vertex", "hilbert",
// or "compressed") at prefix, runs fn over it, and always closes the
// mapper afterward, warning on stderr (without changing the exit code)
// if closing itself fails.
func withMapper(kind, prefix string, fn func(cost.Mapper) error) error {
	var m cost.MapperCloser
	var err error
	switch kind {
	case "vertex":
		m, err = cost.OpenVertex(prefix)
	case "hilbert":
		m, err = cost.OpenTile(prefix)
	case "compressed":
		m, err = cost.OpenDelta(prefix)
	default:
		return fmt.Errorf("cost: unknown representation %q (want vertex, hilbert, or compressed)", kind)
	}
	if err != nil {
		return err
	}
	defer closeWarn(m)
	return fn(m)
}

func closeWarn(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "cost: warning: close:", err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/visualization"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Visualize the concept graph",
		Long: `Output the concept graph in DOT (Graphviz) or JSON format.

Examples:
  sensei graph | dot -Tsvg > concepts.svg
  sensei graph --problems --format json
  sensei graph --highlight trees,dfs,graphs -o path.dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			problems, _ := cmd.Flags().GetBool("problems")
			highlight, _ := cmd.Flags().GetStringSlice("highlight")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := visualization.Options{IncludeProblems: problems, Highlight: highlight}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch visualization.Format(format) {
			case visualization.FormatDOT:
				fmt.Fprint(w, visualization.RenderDOT(a.graph, opts))

			case visualization.FormatJSON:
				if err := writeJSON(w, visualization.Build(a.graph, opts)); err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}

			default:
				return fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
			}

			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Graph written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot or json")
	cmd.Flags().StringP("output", "o", "", "Output file path (default stdout)")
	cmd.Flags().Bool("problems", false, "Include problems and their edges")
	cmd.Flags().StringSlice("highlight", nil, "Concepts to outline (comma-separated)")

	return cmd
}

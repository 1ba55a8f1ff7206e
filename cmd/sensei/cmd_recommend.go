package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/models"
)

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <text>",
		Short: "Show the intent, concepts and problems found in a statement",
		Long: `Run entity extraction over a learner statement without recommending anything.

Examples:
  sensei process "I just solved two sum"
  sensei process --json "learned bfs and dfs today"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.extractor.Process(strings.Join(args, " "))

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Intent:   %s\n", result.Intent)
			fmt.Fprintf(out, "Concepts: %s\n", formatMatches(result.ConceptsDetailed))
			fmt.Fprintf(out, "Problems: %s\n", formatMatches(result.ProblemsDetailed))
			return nil
		},
	}
}

// formatMatches lists matches as "id (method 0.92)".
func formatMatches(results []models.ExtractionResult) string {
	if len(results) == 0 {
		return "(none)"
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("%s (%s %.2f)", r.ID, r.Method, r.Confidence)
	}
	return strings.Join(parts, ", ")
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <concept>...",
		Short: "Recommend next concepts and problems for learned concepts",
		Long: `Recommend what to study after the given concepts.

Examples:
  sensei next arrays hashing
  sensei next "binary search" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return printResult(cmd, a.renderer.Render, a.engine.RecommendFromConcepts(args))
		},
	}
}

func newSolvedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solved <problem>",
		Short: "Recommend follow-up problems after solving one",
		Long: `Recommend similar problems, pattern practice and next concepts for a
solved problem. Multiple words are joined, so quoting is optional.

Examples:
  sensei solved two sum
  sensei solved "valid parentheses" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.engine.RecommendFromProblem(strings.Join(args, " "))
			if err != nil {
				return printNotFound(cmd, a.renderer.Render, err)
			}
			return printResult(cmd, a.renderer.Render, rec)
		},
	}
}

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <goal>",
		Short: "Find a learning path to a goal concept",
		Long: `Find a route of concepts from what you know to a goal concept.

Examples:
  sensei path graphs --current trees,recursion
  sensei path "dynamic programming" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := cmd.Flags().GetStringSlice("current")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.engine.LearningPath(current, strings.Join(args, " "))
			if err != nil {
				return printNotFound(cmd, a.renderer.Render, err)
			}
			return printResult(cmd, a.renderer.Render, path)
		},
	}

	cmd.Flags().StringSlice("current", nil, "Concepts you already know (comma-separated)")
	return cmd
}

// printResult writes result as JSON or as the rendered reply.
func printResult(cmd *cobra.Command, render func(models.Result) string, result models.Result) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"kind":    result.Kind(),
			"result":  result,
			"message": render(result),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), render(result))
	return nil
}

// printNotFound prints a missing problem or concept as a normal answer.
// Any other error is returned.
func printNotFound(cmd *cobra.Command, render func(models.Result) string, err error) error {
	var nf *models.NotFound
	if !errors.As(err, &nf) {
		return err
	}
	return printResult(cmd, render, nf)
}

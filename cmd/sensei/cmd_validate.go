package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog for consistency issues",
		Long: `Validate the knowledge catalog for consistency issues.

This command checks for:
  - Dangling references (concepts or problems naming undefined identifiers)
  - Self-references (a concept listing itself)
  - Cycles in prerequisite chains

Issues are informational: recommendations tolerate all of them. Use
--strict to exit non-zero when any are found.

Examples:
  sensei validate
  sensei validate --catalog my-catalog.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			strict, _ := cmd.Flags().GetBool("strict")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			issues := knowledge.Validate(a.graph)

			if jsonOut {
				if issues == nil {
					issues = []knowledge.ValidationError{}
				}
				if err := writeJSON(cmd.OutOrStdout(), map[string]any{
					"valid":  len(issues) == 0,
					"count":  len(issues),
					"errors": issues,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if len(issues) == 0 {
					fmt.Fprintln(out, "Catalog is valid - no issues found")
				} else {
					fmt.Fprintf(out, "Found %d issue(s):\n", len(issues))
					for _, ve := range issues {
						fmt.Fprintf(out, "  - %s\n", ve)
					}
				}
			}

			if strict && len(issues) > 0 {
				return fmt.Errorf("catalog has %d issue(s)", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().Bool("strict", false, "Exit with an error when issues are found")
	return cmd
}

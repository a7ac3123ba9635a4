// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testplanhq/testplan-bot/internal/testplan"
)

var validateResolve bool

// validateCmd checks context names against the test plan.
var validateCmd = &cobra.Command{
	Use:   "validate <context>...",
	Short: "Check whether contexts name defined CI jobs",
	Long: `Validate checks each given context against the test plan for the
repository. Contexts may carry a scenario, a foreign repository with a
branch, or a pull request number:

  fedora-42
  fedora-42/firefox
  fedora-42@owner/other/feature-branch
  fedora-42@bots#1234

With --resolve, pull request numbers are resolved to their head branch
through the GitHub API before checking; without it a PR context is
accepted when it is defined on any branch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		repo, err := resolveRepo(cfg)
		if err != nil {
			return err
		}
		plan, err := loadPlan(cfg)
		if err != nil {
			return err
		}
		validator := testplan.NewValidator(plan)

		var resolver testplan.PRBranchResolver
		if validateResolve {
			client, err := newGitHubClient(cmd.Context(), cfg, repo, validator)
			if err != nil {
				return err
			}
			resolver = client
		}

		invalid := 0
		for _, contextStr := range args {
			ok := validate(cmd.Context(), validator, contextStr, repo, resolver)
			if ok {
				fmt.Printf("ok\t%s\n", contextStr)
			} else {
				fmt.Printf("invalid\t%s\n", contextStr)
				invalid++
			}
		}
		if invalid > 0 {
			return fmt.Errorf("%d of %d contexts are not defined for %s", invalid, len(args), repo)
		}
		return nil
	},
}

func validate(ctx context.Context, v *testplan.Validator, contextStr, repo string, resolver testplan.PRBranchResolver) bool {
	if resolver != nil {
		return v.IsValidContextForPR(ctx, contextStr, repo, resolver)
	}
	return v.IsValidContext(contextStr, repo)
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateResolve, "resolve", false, "Resolve PR numbers to head branches via the API")
}

// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testplanhq/testplan-bot/internal/testplan"
)

var contextsAll bool

// contextsCmd lists the contexts the plan expects for a repository.
var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List the test plan's contexts for a repository",
	Long: `Contexts prints the CI contexts the test plan expects for the
repository's default branch, manual contexts included. With --all every
repository in the plan is listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		plan, err := loadPlan(cfg)
		if err != nil {
			return err
		}

		if contextsAll {
			for _, slug := range plan.Repos() {
				for _, name := range plan.Contexts(slug) {
					fmt.Printf("%s\t%s\n", slug, name)
				}
			}
			return nil
		}

		repo, err := resolveRepo(cfg)
		if err != nil {
			return err
		}
		slug, _ := testplan.SplitRepoSlug(repo)
		names := plan.Contexts(slug)
		if len(names) == 0 {
			return fmt.Errorf("the test plan defines no contexts for %s", slug)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextsCmd)

	contextsCmd.Flags().BoolVar(&contextsAll, "all", false, "List contexts for every repository in the plan")
}

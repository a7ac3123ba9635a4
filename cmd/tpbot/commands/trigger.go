// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package commands

import (
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v60/github"
	"github.com/spf13/cobra"

	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
	ghapi "github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/steps"
	"github.com/testplanhq/testplan-bot/internal/testplan"
)

var (
	triggerRevision string
	triggerPR       int
	triggerDryRun   bool
)

// triggerCmd requests test runs for contexts on a revision.
var triggerCmd = &cobra.Command{
	Use:   "trigger <context>...",
	Short: "Request test runs for contexts on a revision",
	Long: `Trigger creates a "Not yet tested (direct trigger)" status for each
given context and queues the matching test task. Contexts the test plan
does not define are rejected. With --dry-run nothing is written; the
tasks that would be queued are still printed.`,
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

		dryRun := triggerDryRun || cfg.Defaults.DryRun

		deps := &pipeline.Dependencies{DryRun: dryRun}
		var client *ghapi.Client
		if !dryRun {
			client, err = newGitHubClient(cmd.Context(), cfg, repo, validator)
			if err != nil {
				return err
			}
			deps.GitHub = client
		}

		registry := pipeline.NewRegistry()
		steps.RegisterAll(registry)
		run, err := registry.BuildFromNames(pipeline.Presets["status-event"], deps)
		if err != nil {
			return err
		}

		for _, contextStr := range args {
			event := &pipeline.Event{
				Repo:        repo,
				Revision:    triggerRevision,
				Context:     contextStr,
				State:       "pending",
				Description: ghapi.NotTestedDirect,
				PRNumber:    triggerPR,
			}
			pCtx := pipeline.NewContext(cmd.Context(), event, plan, cfg)

			if err := run.Run(pCtx); err != nil {
				return err
			}
			if pCtx.Result.Skipped {
				return fmt.Errorf("context %q rejected: %s", contextStr, pCtx.Result.SkipReason)
			}

			if !dryRun {
				status := &gh.RepoStatus{
					State:       gh.String("pending"),
					Context:     gh.String(contextStr),
					Description: gh.String(ghapi.NotTestedDirect),
				}
				if target := cfg.Defaults.StatusTarget; target != "" {
					status.TargetURL = gh.String(target)
				}
				if err := client.CreateStatus(cmd.Context(), triggerRevision, status); err != nil {
					return fmt.Errorf("creating status for %q: %w", contextStr, err)
				}
			}

			for _, task := range pCtx.Queue.Tasks() {
				data, err := json.Marshal(task)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", task.QueuePath(), data)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)

	triggerCmd.Flags().StringVar(&triggerRevision, "revision", "", "Commit SHA to trigger tests on (required)")
	triggerCmd.Flags().IntVar(&triggerPR, "pr", 0, "Pull request number the revision belongs to")
	triggerCmd.Flags().BoolVar(&triggerDryRun, "dry-run", false, "Validate and print without writing statuses")
	_ = triggerCmd.MarkFlagRequired("revision")
}

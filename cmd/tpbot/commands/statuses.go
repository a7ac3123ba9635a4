// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	gh "github.com/google/go-github/v60/github"

	"github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/testplan"
	"github.com/testplanhq/testplan-bot/internal/tui"
)

var (
	statusesWatch    bool
	statusesInterval time.Duration
)

// statusesCmd shows the validated statuses of a revision.
var statusesCmd = &cobra.Command{
	Use:   "statuses <revision>",
	Short: "Show the validated commit statuses of a revision",
	Long: `Statuses fetches the combined status of a revision and prints the
entries whose context the test plan defines, one per line. With --watch
the statuses are polled and rendered live until every expected context
reaches a terminal state; in CI environments --watch falls back to plain
output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		revision := args[0]

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

		client, err := newGitHubClient(cmd.Context(), cfg, repo, validator)
		if err != nil {
			return err
		}

		if statusesWatch && !inCI() {
			return watchStatuses(cmd.Context(), client, plan, repo, revision)
		}
		if statusesWatch {
			log.Debug("CI environment detected, watch disabled")
		}

		statuses, err := client.Statuses(cmd.Context(), revision)
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Println("no statuses reported")
			return nil
		}
		slug, _ := testplan.SplitRepoSlug(repo)
		printed := make(map[string]bool)
		for _, name := range plan.Contexts(slug) {
			status, ok := statuses[name]
			if !ok {
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", status.GetState(), name, status.GetDescription())
			printed[name] = true
		}
		// Valid contexts outside the default branch list (pinned branches,
		// PR-numbered contexts) still show up.
		for name, status := range statuses {
			if printed[name] {
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", status.GetState(), name, status.GetDescription())
		}
		return nil
	},
}

// watchStatuses polls the revision's statuses and feeds them into the
// interactive watch until every expected context is terminal.
func watchStatuses(ctx context.Context, client *github.Client, plan *testplan.Plan, repo, revision string) error {
	slug, _ := testplan.SplitRepoSlug(repo)
	contexts := plan.Contexts(slug)
	if len(contexts) == 0 {
		return fmt.Errorf("the test plan defines no contexts for %s", slug)
	}

	// Cancel the poller when the watch returns, whether it finished or the
	// user quit mid-poll.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusChan := make(chan tui.StatusMsg)
	model := tui.NewModel(revision, contexts, statusChan)
	p := tea.NewProgram(model)

	go pollStatuses(ctx, p, client, contexts, revision, statusChan)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running watch: %w", err)
	}
	return nil
}

func pollStatuses(ctx context.Context, p *tea.Program, client *github.Client, contexts []string, revision string, statusChan chan tui.StatusMsg) {
	defer close(statusChan)

	ticker := time.NewTicker(statusesInterval)
	defer ticker.Stop()

	for {
		statuses, err := client.Statuses(ctx, revision)
		if err != nil {
			p.Send(tui.ResultMsg{Success: false, Output: err.Error()})
			return
		}

		done := true
		for _, name := range contexts {
			status, ok := statuses[name]
			if !ok {
				done = false
				continue
			}
			msg := tui.StatusMsg{
				Context:     name,
				State:       status.GetState(),
				Description: status.GetDescription(),
			}
			if !sendStatus(ctx, statusChan, msg) {
				return
			}
			if !terminalState(status) {
				done = false
			}
		}
		if done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sendStatus forwards one update to the watch, giving up when the watch
// context is canceled so the poller never blocks on a gone receiver.
func sendStatus(ctx context.Context, statusChan chan<- tui.StatusMsg, msg tui.StatusMsg) bool {
	select {
	case statusChan <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func terminalState(status *gh.RepoStatus) bool {
	switch status.GetState() {
	case "success", "failure", "error":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(statusesCmd)

	statusesCmd.Flags().BoolVar(&statusesWatch, "watch", false, "Poll and render statuses live")
	statusesCmd.Flags().DurationVar(&statusesInterval, "interval", 10*time.Second, "Poll interval for --watch")
}

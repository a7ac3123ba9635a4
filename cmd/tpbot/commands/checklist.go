// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/testplanhq/testplan-bot/internal/utils/checklist"
)

var (
	checklistIssue   int
	checklistCheck   []string
	checklistUncheck []string
	checklistStatus  []string
	checklistAdd     []string
	checklistDryRun  bool
)

// checklistCmd reads and edits the task list in an issue body.
var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Read or update the task list in an issue body",
	Long: `Checklist parses the Markdown task list of an issue. Without edit
flags it prints the items and their states. Edits rewrite only the
affected lines; everything else in the body is preserved byte for byte.

  tpbot checklist --issue 42
  tpbot checklist --issue 42 --check "image refresh"
  tpbot checklist --issue 42 --status "fedora-42=Testing in progress"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		repo, err := resolveRepo(cfg)
		if err != nil {
			return err
		}

		client, err := newGitHubClient(cmd.Context(), cfg, repo, nil)
		if err != nil {
			return err
		}
		issue, err := client.Issue(cmd.Context(), checklistIssue)
		if err != nil {
			return err
		}

		list := checklist.New(issue.GetBody())

		editing := len(checklistCheck)+len(checklistUncheck)+len(checklistStatus)+len(checklistAdd) > 0
		if !editing {
			for _, item := range list.Items() {
				check, _ := list.State(item)
				mark := " "
				if check.Done {
					mark = "x"
				}
				detail := ""
				if check.Status != "" {
					detail = "\t" + check.Status
				}
				fmt.Printf("[%s] %s%s\n", mark, item, detail)
			}
			return nil
		}

		for _, item := range checklistCheck {
			list.Check(item, true)
		}
		for _, item := range checklistUncheck {
			list.Check(item, false)
		}
		for _, pair := range checklistStatus {
			item, status, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid --status %q: expected item=status", pair)
			}
			list.SetStatus(item, status)
		}
		for _, item := range checklistAdd {
			list.Add(item)
		}

		if checklistDryRun || cfg.Defaults.DryRun {
			fmt.Println(list.Body)
			return nil
		}
		return client.UpdateIssueBody(cmd.Context(), checklistIssue, list.Body)
	},
}

func init() {
	rootCmd.AddCommand(checklistCmd)

	checklistCmd.Flags().IntVar(&checklistIssue, "issue", 0, "Issue number (required)")
	checklistCmd.Flags().StringArrayVar(&checklistCheck, "check", nil, "Mark an item done")
	checklistCmd.Flags().StringArrayVar(&checklistUncheck, "uncheck", nil, "Mark an item not done")
	checklistCmd.Flags().StringArrayVar(&checklistStatus, "status", nil, "Set an item's status (item=status)")
	checklistCmd.Flags().StringArrayVar(&checklistAdd, "add", nil, "Append a new unchecked item")
	checklistCmd.Flags().BoolVar(&checklistDryRun, "dry-run", false, "Print the updated body instead of writing it")
	_ = checklistCmd.MarkFlagRequired("issue")
}

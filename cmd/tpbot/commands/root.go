// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

// Package commands implements the tpbot CLI.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/testplanhq/testplan-bot/internal/core/config"
	"github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/testplan"
)

var (
	cfgFile  string
	verbose  bool
	repoFlag string
)

// rootCmd is the base command for tpbot.
var rootCmd = &cobra.Command{
	Use:   "tpbot",
	Short: "Testplan-Bot keeps commit statuses in sync with a declarative test plan",
	Long: `Testplan-Bot validates CI context names against a declarative test plan,
seeds the expected statuses on fresh revisions and turns directly triggered
statuses into queued test tasks.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "Repository slug (owner/name), overrides the configuration")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// inCI reports whether we run inside a CI environment, where the
// interactive TUI must stay off.
func inCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}

// loadConfig loads the effective configuration, following extends chains
// through the GitHub API when needed. A missing config file is not an
// error; defaults and environment variables still apply.
func loadConfig() *config.Config {
	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		client, err := github.NewClient(context.Background(), github.Options{Repo: org + "/" + repo})
		if err != nil {
			return nil, err
		}
		return client.FileContent(context.Background(), org, repo, path, branch)
	}

	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			log.Warn("configuration file not found, using defaults", "path", cfgFile)
		} else {
			log.Debug("no configuration file found, using defaults")
		}
		return &config.Config{}
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		log.Warn("failed to load configuration, proceeding with defaults", "path", path, "err", err)
		return &config.Config{}
	}
	log.Debug("loaded configuration", "path", path)
	return cfg
}

// resolveRepo returns the repository slug to operate on: the --repo flag
// wins over the configuration.
func resolveRepo(cfg *config.Config) (string, error) {
	repo := repoFlag
	if repo == "" {
		repo = cfg.Repository
	}
	if repo == "" {
		repo = os.Getenv("GITHUB_BASE")
	}
	if repo == "" {
		return "", fmt.Errorf("no repository given: use --repo or set it in the configuration")
	}
	return repo, nil
}

// loadPlan loads the test plan named by the configuration. Remote plans
// ("org/repo@branch:path") are fetched through the GitHub API.
func loadPlan(cfg *config.Config) (*testplan.Plan, error) {
	path := cfg.PlanPath
	if path == "" {
		path = "testplan.yaml"
	}

	if strings.Contains(path, "@") {
		org, repo, branch, file, err := config.ParseExtendsRef(path)
		if err != nil {
			return nil, fmt.Errorf("invalid plan reference %q: %w", path, err)
		}
		client, err := github.NewClient(context.Background(), github.Options{Repo: org + "/" + repo})
		if err != nil {
			return nil, err
		}
		data, err := client.FileContent(context.Background(), org, repo, file, branch)
		if err != nil {
			return nil, fmt.Errorf("fetching plan %q: %w", path, err)
		}
		return testplan.Parse(data)
	}

	return testplan.Load(path)
}

// newGitHubClient builds an API client bound to repo. A pinned branch in
// the slug is stripped; the validator filters status listings.
func newGitHubClient(ctx context.Context, cfg *config.Config, repo string, validator *testplan.Validator) (*github.Client, error) {
	slug, _ := testplan.SplitRepoSlug(repo)
	return github.NewClient(ctx, github.Options{
		Repo:      slug,
		Validator: validator,
		CacheDir:  cfg.CacheDir,
	})
}

// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

// Package config handles loading and merging testplan-bot configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Repository is the "owner/name" slug the bot operates on. Overridable
	// with --repo or the GITHUB_BASE environment variable.
	Repository string `yaml:"repository,omitempty"`

	// PlanPath points at the declarative test plan YAML. A remote plan can
	// be named as "org/repo@branch:path".
	PlanPath string `yaml:"plan,omitempty"`

	// CacheDir overrides the XDG location for the response cache and
	// access log.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Defaults contains default behavior settings.
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig holds default behavior settings.
type DefaultsConfig struct {
	// BotLabel is the label that marks issues the bot manages.
	BotLabel string `yaml:"bot_label"`

	// StatusTarget is the target URL attached to statuses the bot creates.
	StatusTarget string `yaml:"status_target,omitempty"`

	// DryRun disables every write call when true.
	DryRun bool `yaml:"dry_run"`
}

// Load reads a config file from the given path and expands environment
// variables in its content.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function retrieves remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	expanded := os.ExpandEnv(string(parentData))
	var parentCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &parentCfg); err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	merged := mergeConfigs(&parentCfg, cfg)
	merged.applyDefaults()
	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/testplan.yaml",
		".github/testplan.yml",
		".testplan.yaml",
		".testplan.yml",
		filepath.Join(xdg.ConfigHome, "testplan-bot", "config.yaml"),
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Repository == "" {
		c.Repository = os.Getenv("GITHUB_BASE")
	}
	if c.PlanPath == "" {
		c.PlanPath = "testplan.yaml"
	}
	if c.Defaults.BotLabel == "" {
		c.Defaults.BotLabel = "bot"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	if child.Repository != "" {
		result.Repository = child.Repository
	}
	if child.PlanPath != "" {
		result.PlanPath = child.PlanPath
	}
	if child.CacheDir != "" {
		result.CacheDir = child.CacheDir
	}
	if child.Defaults.BotLabel != "" {
		result.Defaults.BotLabel = child.Defaults.BotLabel
	}
	if child.Defaults.StatusTarget != "" {
		result.Defaults.StatusTarget = child.Defaults.StatusTarget
	}
	// DryRun: always take the child value so it can override parent
	// true -> false and vice versa.
	result.Defaults.DryRun = child.Defaults.DryRun

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/testplan.yaml" // default path
	}

	return org, repo, branch, path, nil
}

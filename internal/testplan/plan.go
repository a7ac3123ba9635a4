// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

package testplan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultBranch is assumed when a repository entry does not name one.
const DefaultBranch = "main"

// RepoPlan describes the contexts defined for one repository.
type RepoPlan struct {
	// DefaultBranch is the branch evaluated when a lookup does not pin
	// one. Falls back to "main".
	DefaultBranch string `yaml:"default_branch,omitempty"`

	// Branches maps branch name to its ordered context list.
	Branches map[string][]string `yaml:"branches"`

	// Manual lists contexts that only run on explicit request. Checked
	// independently of the branch lists; a match in either set accepts.
	Manual []string `yaml:"manual,omitempty"`
}

// Plan is the declarative test matrix: repository slug to branch to context
// list, plus per-repository manual contexts. A Plan is immutable after
// construction; concurrent lookups need no locking.
type Plan struct {
	repos map[string]RepoPlan
}

// planDocument is the on-disk YAML shape.
type planDocument struct {
	Repositories map[string]RepoPlan `yaml:"repositories"`
}

// New constructs a Plan from a literal repository mapping. The mapping is
// not copied; callers must not mutate it afterwards.
func New(repos map[string]RepoPlan) *Plan {
	if repos == nil {
		repos = map[string]RepoPlan{}
	}
	return &Plan{repos: repos}
}

// Parse builds a Plan from a YAML document. Environment variables in the
// document are expanded before parsing.
func Parse(data []byte) (*Plan, error) {
	expanded := os.ExpandEnv(string(data))

	var doc planDocument
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse test plan: %w", err)
	}
	return New(doc.Repositories), nil
}

// Load reads a test plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test plan: %w", err)
	}
	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Repo returns the plan entry for a repository slug.
func (p *Plan) Repo(slug string) (RepoPlan, bool) {
	rp, ok := p.repos[slug]
	return rp, ok
}

// Repos returns the known repository slugs, in map order.
func (p *Plan) Repos() []string {
	slugs := make([]string, 0, len(p.repos))
	for slug := range p.repos {
		slugs = append(slugs, slug)
	}
	return slugs
}

// defaultBranch returns the branch evaluated for unpinned lookups.
func (rp RepoPlan) defaultBranch() string {
	if rp.DefaultBranch != "" {
		return rp.DefaultBranch
	}
	return DefaultBranch
}

// Contexts returns the deduplicated context list for a repository's default
// branch followed by its manual contexts, preserving plan order. Used when
// seeding statuses for a new revision.
func (p *Plan) Contexts(slug string) []string {
	rp, ok := p.repos[slug]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, lists := range [][]string{rp.Branches[rp.defaultBranch()], rp.Manual} {
		for _, context := range lists {
			if !seen[context] {
				seen[context] = true
				result = append(result, context)
			}
		}
	}
	return result
}

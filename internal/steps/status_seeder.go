// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

package steps

import (
	"fmt"

	gh "github.com/google/go-github/v60/github"

	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
	ghapi "github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/testplan"
)

// StatusSeeder creates a "Not yet tested" status for every context the
// plan defines for the event's repository that the revision does not
// already report. This is what makes a fresh pull request head show its
// full expected test matrix.
type StatusSeeder struct {
	deps *pipeline.Dependencies
}

// NewStatusSeeder creates the seeder step.
func NewStatusSeeder(deps *pipeline.Dependencies) *StatusSeeder {
	return &StatusSeeder{deps: deps}
}

// Name returns the step identifier.
func (s *StatusSeeder) Name() string {
	return "status_seeder"
}

// Run seeds the missing statuses.
func (s *StatusSeeder) Run(ctx *pipeline.Context) error {
	event := ctx.Event
	repo, _ := testplan.SplitRepoSlug(event.Repo)

	wanted := ctx.Plan.Contexts(repo)
	if len(wanted) == 0 {
		ctx.Result.SkipReason = fmt.Sprintf("the test plan defines no contexts for %s", repo)
		return pipeline.ErrSkipPipeline
	}

	existing := map[string]*gh.RepoStatus{}
	if s.deps.GitHub != nil {
		var err error
		existing, err = s.deps.GitHub.Statuses(ctx.Ctx, event.Revision)
		if err != nil {
			return err
		}
	} else if !s.deps.DryRun {
		return fmt.Errorf("status seeding needs a GitHub client")
	}

	for _, name := range wanted {
		if _, reported := existing[name]; reported {
			continue
		}
		if !s.deps.DryRun {
			status := &gh.RepoStatus{
				State:       gh.String("pending"),
				Context:     gh.String(name),
				Description: gh.String(ghapi.NotTested),
			}
			if target := ctx.Config.Defaults.StatusTarget; target != "" {
				status.TargetURL = gh.String(target)
			}
			if err := s.deps.GitHub.CreateStatus(ctx.Ctx, event.Revision, status); err != nil {
				return err
			}
		}
		ctx.Result.SeededContexts = append(ctx.Result.SeededContexts, name)
	}
	return nil
}

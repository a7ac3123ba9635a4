// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

package steps

import (
	"context"
	"errors"
	"testing"

	gh "github.com/google/go-github/v60/github"

	"github.com/testplanhq/testplan-bot/internal/core/config"
	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
	ghapi "github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/testplan"
)

func testPlan() *testplan.Plan {
	return testplan.New(map[string]testplan.RepoPlan{
		"acme/console": {
			Branches: map[string][]string{
				"main": {"debian-testing", "arch/networking"},
			},
			Manual: []string{"fedora-rawhide"},
		},
	})
}

func newPipelineContext(event *pipeline.Event) *pipeline.Context {
	return pipeline.NewContext(context.Background(), event, testPlan(), &config.Config{})
}

// fakeStatusAPI records created statuses.
type fakeStatusAPI struct {
	existing map[string]*gh.RepoStatus
	created  []*gh.RepoStatus
	err      error
}

func (f *fakeStatusAPI) Statuses(ctx context.Context, revision string) (map[string]*gh.RepoStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.existing, nil
}

func (f *fakeStatusAPI) CreateStatus(ctx context.Context, revision string, status *gh.RepoStatus) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, status)
	return nil
}

func TestContextGate(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		repo     string
		wantSkip bool
	}{
		{"defined context", "debian-testing", "acme/console", false},
		{"wildcard scenario", "debian-testing/newscen", "acme/console", false},
		{"manual context", "fedora-rawhide", "acme/console", false},
		{"unknown context", "wrongos", "acme/console", true},
		{"unknown repository", "debian-testing", "acme/other", true},
		{"empty context", "", "acme/console", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newPipelineContext(&pipeline.Event{
				Repo:     tt.repo,
				Revision: "abc123",
				Context:  tt.context,
			})
			err := NewContextGate(&pipeline.Dependencies{}).Run(ctx)

			if tt.wantSkip {
				if !errors.Is(err, pipeline.ErrSkipPipeline) {
					t.Errorf("expected ErrSkipPipeline, got %v", err)
				}
				if ctx.Result.SkipReason == "" {
					t.Error("expected a skip reason")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if !ctx.Result.ContextValid {
					t.Error("expected ContextValid")
				}
			}
		})
	}
}

func TestStatusSeeder(t *testing.T) {
	api := &fakeStatusAPI{
		existing: map[string]*gh.RepoStatus{
			"debian-testing": {Context: gh.String("debian-testing")},
		},
	}
	ctx := newPipelineContext(&pipeline.Event{Repo: "acme/console", Revision: "abc123"})
	ctx.Config.Defaults.StatusTarget = "https://logs.example.com"

	err := NewStatusSeeder(&pipeline.Dependencies{GitHub: api}).Run(ctx)
	if err != nil {
		t.Fatalf("seeder failed: %v", err)
	}

	// debian-testing is already reported, the other two get seeded.
	if len(api.created) != 2 {
		t.Fatalf("expected 2 created statuses, got %d", len(api.created))
	}
	for _, status := range api.created {
		if status.GetDescription() != ghapi.NotTested {
			t.Errorf("description = %q, want %q", status.GetDescription(), ghapi.NotTested)
		}
		if status.GetState() != "pending" {
			t.Errorf("state = %q, want pending", status.GetState())
		}
		if status.GetTargetURL() != "https://logs.example.com" {
			t.Errorf("target URL = %q", status.GetTargetURL())
		}
	}
	want := []string{"arch/networking", "fedora-rawhide"}
	if len(ctx.Result.SeededContexts) != 2 || ctx.Result.SeededContexts[0] != want[0] || ctx.Result.SeededContexts[1] != want[1] {
		t.Errorf("SeededContexts = %v, want %v", ctx.Result.SeededContexts, want)
	}
}

func TestStatusSeederDryRun(t *testing.T) {
	ctx := newPipelineContext(&pipeline.Event{Repo: "acme/console", Revision: "abc123"})

	err := NewStatusSeeder(&pipeline.Dependencies{DryRun: true}).Run(ctx)
	if err != nil {
		t.Fatalf("dry-run seeder failed: %v", err)
	}
	if len(ctx.Result.SeededContexts) != 3 {
		t.Errorf("expected all 3 contexts recorded in dry-run, got %v", ctx.Result.SeededContexts)
	}
}

func TestStatusSeederUnknownRepo(t *testing.T) {
	ctx := newPipelineContext(&pipeline.Event{Repo: "acme/other", Revision: "abc123"})

	err := NewStatusSeeder(&pipeline.Dependencies{DryRun: true}).Run(ctx)
	if !errors.Is(err, pipeline.ErrSkipPipeline) {
		t.Errorf("expected ErrSkipPipeline for a repo with no contexts, got %v", err)
	}
}

func TestStatusSeederNeedsClient(t *testing.T) {
	ctx := newPipelineContext(&pipeline.Event{Repo: "acme/console", Revision: "abc123"})
	if err := NewStatusSeeder(&pipeline.Dependencies{}).Run(ctx); err == nil {
		t.Error("expected an error without a client outside dry-run")
	}
}

func TestTaskBuilderDirectTrigger(t *testing.T) {
	ctx := newPipelineContext(&pipeline.Event{
		Repo:        "acme/console",
		Revision:    "abc123",
		Context:     "debian-testing",
		Description: ghapi.NotTestedDirect,
		PRNumber:    42,
	})

	if err := NewTaskBuilder(&pipeline.Dependencies{}).Run(ctx); err != nil {
		t.Fatalf("builder failed: %v", err)
	}

	queued := ctx.Queue.Tasks()
	if len(queued) != 1 {
		t.Fatalf("expected 1 queued task, got %d", len(queued))
	}
	task := queued[0]
	if task.Context != "debian-testing" || task.Revision != "abc123" || task.PullRequest != 42 {
		t.Errorf("unexpected task: %+v", task)
	}
	if len(ctx.Result.QueuedTasks) != 1 || ctx.Result.QueuedTasks[0] != task.ID {
		t.Errorf("QueuedTasks = %v", ctx.Result.QueuedTasks)
	}
}

func TestTaskBuilderIgnoresOtherDescriptions(t *testing.T) {
	for _, description := range []string{"", ghapi.NotTested, ghapi.Testing, "all tests passed"} {
		ctx := newPipelineContext(&pipeline.Event{
			Repo:        "acme/console",
			Revision:    "abc123",
			Context:     "debian-testing",
			Description: description,
		})
		if err := NewTaskBuilder(&pipeline.Dependencies{}).Run(ctx); err != nil {
			t.Fatalf("builder failed: %v", err)
		}
		if ctx.Queue.Len() != 0 {
			t.Errorf("description %q should not queue a task", description)
		}
	}
}

func TestRegisterAllPresets(t *testing.T) {
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	for preset, names := range pipeline.Presets {
		p, err := registry.BuildFromNames(names, &pipeline.Dependencies{DryRun: true})
		if err != nil {
			t.Errorf("preset %q failed to build: %v", preset, err)
			continue
		}
		if len(p.Steps()) != len(names) {
			t.Errorf("preset %q built %d steps, want %d", preset, len(p.Steps()), len(names))
		}
	}
}

func TestPipelineSkipIsGraceful(t *testing.T) {
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	p, err := registry.BuildFromNames([]string{"context_gate", "task_builder"}, &pipeline.Dependencies{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}

	ctx := newPipelineContext(&pipeline.Event{
		Repo:        "acme/console",
		Revision:    "abc123",
		Context:     "wrongos",
		Description: ghapi.NotTestedDirect,
	})
	if err := p.Run(ctx); err != nil {
		t.Fatalf("skip must not surface as an error: %v", err)
	}
	if !ctx.Result.Skipped {
		t.Error("expected Result.Skipped")
	}
	if ctx.Queue.Len() != 0 {
		t.Error("gated event must not queue tasks")
	}
}

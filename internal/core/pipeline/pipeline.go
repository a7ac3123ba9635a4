// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

// Package pipeline provides the engine that processes CI status events.
// It defines the Step interface and Context structure used by all steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v60/github"

	"github.com/testplanhq/testplan-bot/internal/core/config"
	"github.com/testplanhq/testplan-bot/internal/tasks"
	"github.com/testplanhq/testplan-bot/internal/testplan"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., a context the
// test plan does not define).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic. It should return ErrSkipPipeline to
	// stop the pipeline gracefully, or any other error to indicate failure.
	Run(ctx *Context) error
}

// Event is a normalized status event being processed.
type Event struct {
	// Repo is the "owner/name" slug the event belongs to.
	Repo string

	// Revision is the commit SHA the status applies to.
	Revision string

	// Context names the CI job the status reports on.
	Context string

	// State is the reported state ("pending", "success", "failure").
	State string

	// Description is the human-readable status text; trigger descriptions
	// are matched against it.
	Description string

	// PRNumber is the pull request the revision belongs to, when known.
	PRNumber int

	// Received is when the event arrived.
	Received time.Time
}

// StatusAPI is the subset of the GitHub client the steps need.
type StatusAPI interface {
	Statuses(ctx context.Context, revision string) (map[string]*gh.RepoStatus, error)
	CreateStatus(ctx context.Context, revision string, status *gh.RepoStatus) error
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	Skipped        bool
	SkipReason     string
	ContextValid   bool
	SeededContexts []string
	QueuedTasks    []string
	Errors         []error
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Event is the status event being processed.
	Event *Event

	// Plan is the loaded test plan; Validator is its validator.
	Plan      *testplan.Plan
	Validator *testplan.Validator

	// Config is the loaded configuration.
	Config *config.Config

	// Queue receives test tasks built during the run.
	Queue *tasks.Queue

	// Result accumulates the processing results.
	Result *Result

	// Metadata allows steps to pass arbitrary data to subsequent steps.
	Metadata map[string]interface{}
}

// NewContext creates a new pipeline context for an event.
func NewContext(ctx context.Context, event *Event, plan *testplan.Plan, cfg *config.Config) *Context {
	return &Context{
		Ctx:       ctx,
		Event:     event,
		Plan:      plan,
		Validator: testplan.NewValidator(plan),
		Config:    cfg,
		Queue:     &tasks.Queue{},
		Result:    &Result{},
		Metadata:  make(map[string]interface{}),
	}
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				ctx.Result.Skipped = true
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}

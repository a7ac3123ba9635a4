// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

// Package steps implements the built-in pipeline steps for processing
// status events against the test plan.
package steps

import (
	"fmt"

	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
)

// ContextGate rejects events whose context the test plan does not define
// for the event's repository. Everything downstream can then trust the
// context to name a real CI job.
type ContextGate struct {
	deps *pipeline.Dependencies
}

// NewContextGate creates the gate step.
func NewContextGate(deps *pipeline.Dependencies) *ContextGate {
	return &ContextGate{deps: deps}
}

// Name returns the step identifier.
func (s *ContextGate) Name() string {
	return "context_gate"
}

// Run validates the event context.
func (s *ContextGate) Run(ctx *pipeline.Context) error {
	event := ctx.Event
	if event.Context == "" {
		ctx.Result.SkipReason = "event carries no context"
		return pipeline.ErrSkipPipeline
	}

	if !ctx.Validator.IsValidContext(event.Context, event.Repo) {
		ctx.Result.SkipReason = fmt.Sprintf("context %q is not defined for %s", event.Context, event.Repo)
		return pipeline.ErrSkipPipeline
	}

	ctx.Result.ContextValid = true
	return nil
}

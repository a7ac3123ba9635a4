// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

package steps

import (
	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
	ghapi "github.com/testplanhq/testplan-bot/internal/integrations/github"
	"github.com/testplanhq/testplan-bot/internal/tasks"
)

// TaskBuilder turns directly-triggered status events into queued test
// tasks. Only events described as "Not yet tested (direct trigger)"
// publish a task; everything else passes through untouched, so the
// statuses the seeder itself creates never loop back into the queue.
type TaskBuilder struct {
	deps *pipeline.Dependencies
}

// NewTaskBuilder creates the builder step.
func NewTaskBuilder(deps *pipeline.Dependencies) *TaskBuilder {
	return &TaskBuilder{deps: deps}
}

// Name returns the step identifier.
func (s *TaskBuilder) Name() string {
	return "task_builder"
}

// Run queues a task for a direct trigger.
func (s *TaskBuilder) Run(ctx *pipeline.Context) error {
	event := ctx.Event
	if event.Description != ghapi.NotTestedDirect {
		return nil
	}

	task := tasks.New(event.Repo, event.Revision, event.Context)
	if event.PRNumber != 0 {
		task.PullRequest = event.PRNumber
	}
	task.Metadata = map[string]string{"trigger": "direct"}

	ctx.Queue.Add(task)
	ctx.Result.QueuedTasks = append(ctx.Result.QueuedTasks, task.ID)
	return nil
}

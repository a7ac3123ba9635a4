// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

package steps

import (
	"github.com/testplanhq/testplan-bot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("context_gate", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewContextGate(deps), nil
	})

	r.Register("status_seeder", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewStatusSeeder(deps), nil
	})

	r.Register("task_builder", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTaskBuilder(deps), nil
	})
}

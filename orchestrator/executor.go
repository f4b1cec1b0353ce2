package orchestrator

import (
	"context"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

// Executor walks a Plan step by step, resolving each step against the
// registry and threading one Context through the run. Steps naming an
// unregistered agent are skipped with a warning and the run continues.
type Executor struct {
	registry *Registry
	logger   logging.Logger
}

// NewExecutor constructs an Executor over the given registry.
func NewExecutor(registry *Registry, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Executor{registry: registry, logger: logger}
}

// Execute runs the plan sequentially. Each resolved agent receives the
// previous step's output Context and its name is recorded in the returned
// trajectory; unresolved steps leave the Context untouched and are not
// recorded.
func (e *Executor) Execute(ctx context.Context, plan core.Plan, initial core.Context) (core.Context, *core.Trajectory) {
	current := initial
	trajectory := &core.Trajectory{}

	for _, step := range plan.Steps {
		agent, ok := e.registry.Resolve(step.Agent)
		if !ok {
			e.logger.Warn("skipping unresolvable plan step", "agent", step.Agent, "purpose", step.Purpose)
			continue
		}

		e.logger.Debug("executing plan step", "agent", step.Agent, "purpose", step.Purpose)
		current = agent.Process(ctx, current)
		trajectory.Record(step.Agent)
	}

	return current, trajectory
}

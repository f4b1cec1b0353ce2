// Package orchestrator composes plan synthesis, sequential execution over a
// registry of agents, goal evaluation, and a single bounded refinement pass
// into one ProcessGoal operation.
package orchestrator

import (
	"context"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/planner"
)

// Refiner is the optional second capability of the synthesis agent: rewrite
// the current summary using the full Context as evidence.
type Refiner interface {
	Refine(ctx context.Context, in core.Context) core.Context
}

// Result is the outcome of one ProcessGoal run.
type Result struct {
	RunID      string       `json:"run_id"`
	Context    core.Context `json:"context"`
	Plan       core.Plan    `json:"plan"`
	Trajectory []string     `json:"trajectory"`
	Satisfied  bool         `json:"satisfied"`
}

// Summary is a convenience accessor for the final answer text.
func (r Result) Summary() string { return r.Context.GetString(core.KeySummary) }

// Options configure an Orchestrator.
type Options struct {
	Logger logging.Logger
}

// Orchestrator drives one goal through plan, execute, evaluate, refine.
type Orchestrator struct {
	planner  *planner.Synthesizer
	registry *Registry
	executor *Executor
	opts     Options
}

// New constructs an Orchestrator over the given planner and registry.
func New(p *planner.Synthesizer, registry *Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		planner:  p,
		registry: registry,
		executor: NewExecutor(registry, opts.Logger),
		opts:     opts,
	}
}

// ProcessGoal runs the full pipeline for one goal. It always returns a
// Result carrying whatever Context the run accumulated; agent failures,
// fallback planning, and refinement failures all degrade the answer rather
// than abort the run.
func (o *Orchestrator) ProcessGoal(ctx context.Context, goal string) Result {
	runID := core.NewID()
	o.opts.Logger.Info("processing goal", "run_id", runID, "goal", goal)

	plan := o.planner.CreatePlan(ctx, goal)
	o.opts.Logger.Info("plan ready", "run_id", runID, "source", string(plan.Source), "steps", len(plan.Steps))

	result, trajectory := o.executor.Execute(ctx, plan, core.NewContext(goal))

	satisfied := o.planner.GoalSatisfied(ctx, goal, result)
	if !satisfied {
		o.opts.Logger.Info("goal not satisfied, refining summary", "run_id", runID)
		result = o.refine(ctx, result)
	}

	return Result{
		RunID:      runID,
		Context:    result,
		Plan:       plan,
		Trajectory: trajectory.Agents(),
		Satisfied:  satisfied,
	}
}

// refine runs the synthesis agent's refine pass. A missing or non-refining
// synthesis agent is captured as a refinement error in the Context.
func (o *Orchestrator) refine(ctx context.Context, in core.Context) core.Context {
	agent, ok := o.registry.Resolve(core.AgentSummary)
	if !ok {
		out := in.Clone()
		out.Set(core.KeyRefinementError, "no summary agent registered")
		return out
	}
	refiner, ok := agent.(Refiner)
	if !ok {
		out := in.Clone()
		out.Set(core.KeyRefinementError, "summary agent does not support refinement")
		return out
	}
	return refiner.Refine(ctx, in)
}

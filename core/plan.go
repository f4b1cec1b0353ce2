package core

// Step is one planned invocation: the capability to dispatch to and a free-text
// purpose. Purpose is informational only and never parsed.
type Step struct {
	Agent   string `json:"agent"`
	Purpose string `json:"purpose"`
}

// PlanSource distinguishes how a Plan came to be. Fallback planning is a
// first-class outcome, not an error path.
type PlanSource string

const (
	// PlanSourceModel marks a plan synthesized by the generative collaborator.
	PlanSourceModel PlanSource = "model"
	// PlanSourceFallback marks a plan produced by the deterministic keyword planner.
	PlanSourceFallback PlanSource = "fallback"
)

// Plan is the ordered list of agent invocations synthesized for one goal.
//
// Invariants:
//   - Steps is never empty after synthesis (the fallback guarantees at least
//     a general_qa step)
//   - The last step is always the summary capability; the synthesizer enforces
//     this structurally in both paths
//
// Plans are created once per goal and discarded after execution begins; there
// is no re-planning mid-run.
type Plan struct {
	Goal   string     `json:"goal"`
	Steps  []Step     `json:"steps"`
	Source PlanSource `json:"-"`
}

// Append adds a step for the named agent.
func (p *Plan) Append(agent, purpose string) {
	p.Steps = append(p.Steps, Step{Agent: agent, Purpose: purpose})
}

// Contains reports whether the plan holds a step for the named agent.
func (p *Plan) Contains(agent string) bool {
	for _, s := range p.Steps {
		if s.Agent == agent {
			return true
		}
	}
	return false
}

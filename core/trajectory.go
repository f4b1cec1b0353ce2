package core

// Trajectory is the append-only log of agents actually invoked during one run.
// It is owned by the run that produced it, never shared process-wide, so
// concurrent ProcessGoal calls cannot corrupt each other's records.
type Trajectory struct {
	agents []string
}

// Record appends the name of an agent that was dispatched.
func (t *Trajectory) Record(agent string) { t.agents = append(t.agents, agent) }

// Agents returns a copy of the recorded agent names in execution order.
func (t *Trajectory) Agents() []string {
	out := make([]string, len(t.agents))
	copy(out, t.agents)
	return out
}

// Len returns the number of agents recorded.
func (t *Trajectory) Len() int { return len(t.agents) }

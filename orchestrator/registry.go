package orchestrator

import (
	"sort"

	"github.com/goalmesh/goalmesh/core"
)

// Registry maps capability names to agent implementations. It is populated
// at startup and read-only afterwards; plan steps resolve against it by name.
type Registry struct {
	agents map[string]core.Agent
}

// NewRegistry builds a registry from the given agents, keyed by Name().
func NewRegistry(agents ...core.Agent) *Registry {
	r := &Registry{agents: make(map[string]core.Agent, len(agents))}
	for _, a := range agents {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an agent under its own name.
func (r *Registry) Register(a core.Agent) {
	r.agents[a.Name()] = a
}

// Resolve returns the agent registered under name.
func (r *Registry) Resolve(name string) (core.Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered capability names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

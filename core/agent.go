package core

import "context"

// Agent is the uniform capability contract every collaborator in the pipeline
// implements, regardless of the external data source it wraps.
//
// Implementations must:
//   - Treat the received Context as read-only and return an enriched copy
//   - Capture internal failures as an error-shaped value under their own data
//     key (see DataKey) instead of returning an error
//   - Always return a usable Context so the executor can keep going
//
// The fail-soft contract keeps the pipeline unconditional: a failing agent
// degrades information quality for later steps but never aborts the run.
type Agent interface {
	Name() string
	Process(ctx context.Context, in Context) Context
}

// Capability names of the registered agent set. The planner advertises these
// to the model and the fallback table is keyed by them.
const (
	AgentSpaceX    = "spacex"
	AgentWeather   = "weather"
	AgentNews      = "news"
	AgentWikipedia = "wikipedia"
	AgentMovies    = "movies"
	AgentCrypto    = "crypto"
	AgentRecipe    = "recipe"
	AgentGeneralQA = "general_qa"
	AgentSummary   = "summary"
)

// DataKey returns the namespaced Context key an agent writes its output
// (or error value) under, e.g. "spacex" -> "spacex_data".
func DataKey(agent string) string { return agent + "_data" }

package core

import (
	"encoding/json"
	"maps"
)

// KeyGoal is the Context key holding the original user goal. It is seeded at
// the start of a run and must survive to the end.
const KeyGoal = "goal"

// KeySummary is the Context key the summary agent writes its synthesis to.
const KeySummary = "summary"

// KeyRefined marks a Context whose summary was re-synthesized by the
// refinement pass.
const KeyRefined = "refined"

// KeyRefinementError records a refinement failure without failing the run.
const KeyRefinementError = "refinement_error"

// Context is the accumulating result object threaded through the pipeline.
//
// Contract:
//   - Agents never mutate the Context they receive; they Clone, enrich the
//     copy and return it.
//   - Keys written by one agent may be read by later agents; plan order is
//     what establishes that dependency, there is no declared schema.
//   - The goal key, once seeded, is preserved across the whole run.
type Context map[string]any

// NewContext creates a run Context seeded with the user goal.
func NewContext(goal string) Context {
	return Context{KeyGoal: goal}
}

// Clone returns a shallow copy safe for enrichment by the caller.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Set stores a value under key.
func (c Context) Set(key string, v any) { c[key] = v }

// Get returns the value and existence flag for a key.
func (c Context) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the string value for a key, or "" when absent or not a string.
func (c Context) GetString(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

// GetMap returns the map value for a key, or nil when absent or of another type.
func (c Context) GetMap(key string) map[string]any {
	if m, ok := c[key].(map[string]any); ok {
		return m
	}
	return nil
}

// Goal returns the original user goal seeded at the start of the run.
func (c Context) Goal() string { return c.GetString(KeyGoal) }

// HasData reports whether key holds agent data that is not error-shaped.
func (c Context) HasData(key string) bool {
	m := c.GetMap(key)
	if m == nil {
		return false
	}
	_, failed := m["error"]
	return !failed
}

// JSON renders the Context as indented JSON for prompts and CLI output.
// Marshalling failures degrade to an empty object rather than propagating.
func (c Context) JSON() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ErrorData builds the error-shaped value agents merge into the Context when
// an internal failure must be surfaced without aborting the pipeline.
func ErrorData(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// Package agent contains the specialized collaborators registered with the
// orchestrator. Every agent wraps one external data source behind the uniform
// core.Agent contract: it receives the run Context, enriches a copy under its
// own namespaced data key and returns it. Failures are captured as
// error-shaped values in that key; an agent never aborts the pipeline.
//
// Agents whose provider requires a credential fall back to deterministic mock
// data when the key is missing or the provider is unreachable, so the whole
// pipeline stays exercisable offline.
package agent

// Package core defines the shared contracts of the GoalMesh orchestration
// engine: the Agent capability interface, the Context threaded through the
// pipeline, the Plan produced by the synthesizer and the Trajectory recorded
// during execution. It has no dependencies on concrete agents or model
// providers so every other package can import it freely.
package core

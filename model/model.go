// Package model defines the minimal generative-text collaborator interface the
// planner and the model-backed agents drive, plus a deterministic MockModel
// for tests and degraded operation.
package model

import (
	"context"
	"fmt"
)

// Request captures the normalized model input produced by planner and agents.
type Request struct {
	Instructions string `json:"instructions"` // system instructions for the model
	Prompt       string `json:"prompt"`       // user-facing prompt content
}

// Response is the completed text returned by a provider.
type Response struct {
	Text string `json:"text"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the interface required to drive generation. Calls are blocking;
// any timeout behavior is the responsibility of the provider or the caller's
// context.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and for running
// the system without any provider credentials.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every Complete call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Complete implements Model; returns the canned response for the prompt or a
// generic echo when none was registered.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	if m.err != nil {
		return Response{}, m.err
	}
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}
	full := m.responses[req.Prompt]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return Response{Text: full}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }

package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hello", "world")

	resp, err := m.Complete(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "world", resp.Text)
}

func TestMockModel_DefaultEcho(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	resp, err := m.Complete(context.Background(), Request{Prompt: "unknown prompt"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unknown prompt", resp.Text)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.FailWith(errors.New("provider down"))

	_, err := m.Complete(context.Background(), Request{Prompt: "hello"})
	assert.EqualError(t, err, "provider down")
}

func TestMockModel_ContextCancelled(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{Prompt: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	assert.Equal(t, Info{Name: "test-model", Provider: "mock"}, m.Info())
}

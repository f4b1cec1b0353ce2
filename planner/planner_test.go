package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/model"
)

func stepAgents(p core.Plan) []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Agent)
	}
	return names
}

func TestCreatePlan_FallbackWithoutModel(t *testing.T) {
	s := NewSynthesizer()

	plan := s.CreatePlan(context.Background(), "What is the current price of Bitcoin?")

	assert.Equal(t, core.PlanSourceFallback, plan.Source)
	assert.Equal(t, "What is the current price of Bitcoin?", plan.Goal)
	assert.Contains(t, stepAgents(plan), "crypto")
	assert.Equal(t, "summary", plan.Steps[len(plan.Steps)-1].Agent)
}

func TestCreatePlan_FallbackKeywordTable(t *testing.T) {
	s := NewSynthesizer()

	tests := []struct {
		goal string
		want []string
	}{
		{
			goal: "What is the current price of Bitcoin?",
			want: []string{"crypto", "summary"},
		},
		{
			goal: "When is the next SpaceX launch and will weather delay it?",
			want: []string{"spacex", "weather", "general_qa", "summary"},
		},
		{
			goal: "latest bitcoin news",
			want: []string{"news", "crypto", "summary"},
		},
		{
			goal: "recommend a movie to watch",
			want: []string{"movies", "summary"},
		},
		{
			goal: "tell me about the eiffel tower",
			want: []string{"wikipedia", "general_qa", "summary"},
		},
		{
			goal: "xyzzy plugh",
			want: []string{"general_qa", "summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			plan := s.CreatePlan(context.Background(), tt.goal)
			assert.Equal(t, tt.want, stepAgents(plan))
		})
	}
}

func TestCreatePlan_FallbackStepOrderIsTableOrder(t *testing.T) {
	s := NewSynthesizer()

	// Keywords appear in goal order crypto-before-spacex; the plan still
	// lists spacex first because the table order wins.
	plan := s.CreatePlan(context.Background(), "bitcoin miners buying rocket fuel")

	agents := stepAgents(plan)
	require.Contains(t, agents, "spacex")
	require.Contains(t, agents, "crypto")
	assert.Less(t, indexOf(agents, "spacex"), indexOf(agents, "crypto"))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestCreatePlan_ModelPlan(t *testing.T) {
	mock := model.NewMockModel("planner", "mock")
	mock.AddResponse(planPrompt("What is the price of Bitcoin?"),
		`{"goal": "What is the price of Bitcoin?", "steps": [{"agent": "crypto", "purpose": "Get Bitcoin price"}, {"agent": "summary", "purpose": "Summarize"}]}`)

	s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })

	plan := s.CreatePlan(context.Background(), "What is the price of Bitcoin?")

	assert.Equal(t, core.PlanSourceModel, plan.Source)
	assert.Equal(t, []string{"crypto", "summary"}, stepAgents(plan))
}

func TestCreatePlan_ModelPlanInCodeFence(t *testing.T) {
	mock := model.NewMockModel("planner", "mock")
	mock.AddResponse(planPrompt("goal"),
		"```json\n{\"goal\": \"goal\", \"steps\": [{\"agent\": \"wikipedia\", \"purpose\": \"look up\"}]}\n```")

	s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })

	plan := s.CreatePlan(context.Background(), "goal")

	assert.Equal(t, core.PlanSourceModel, plan.Source)
	// Summary is appended when the model forgot the terminal step.
	assert.Equal(t, []string{"wikipedia", "summary"}, stepAgents(plan))
}

func TestCreatePlan_UnparsableModelOutputFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "I think you should ask the crypto agent."},
		{"empty steps", `{"goal": "g", "steps": []}`},
		{"missing agent name", `{"goal": "g", "steps": [{"purpose": "look up"}]}`},
		{"unknown shape", `{"plan": ["crypto"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := model.NewMockModel("planner", "mock")
			mock.AddResponse(planPrompt("What is the price of Bitcoin?"), tt.response)

			s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })
			plan := s.CreatePlan(context.Background(), "What is the price of Bitcoin?")

			assert.Equal(t, core.PlanSourceFallback, plan.Source)
			assert.Contains(t, stepAgents(plan), "crypto")
		})
	}
}

func TestCreatePlan_ModelErrorFallsBack(t *testing.T) {
	mock := model.NewMockModel("planner", "mock")
	mock.FailWith(errors.New("offline"))

	s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })
	plan := s.CreatePlan(context.Background(), "What is the price of Bitcoin?")

	assert.Equal(t, core.PlanSourceFallback, plan.Source)
}

func planPrompt(goal string) string {
	return fmt.Sprintf(planPromptTemplate, goal)
}

func TestGoalSatisfied(t *testing.T) {
	goal := "What is the price of Bitcoin?"
	result := core.NewContext(goal)

	tests := []struct {
		response string
		want     bool
	}{
		{"yes", true},
		{"Yes", true},
		{"  YES \n", true},
		{"Yes.", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("response "+tt.response, func(t *testing.T) {
			mock := &fixedModel{text: tt.response}
			s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })
			assert.Equal(t, tt.want, s.GoalSatisfied(context.Background(), goal, result))
		})
	}
}

func TestGoalSatisfied_NoModel(t *testing.T) {
	s := NewSynthesizer()
	assert.False(t, s.GoalSatisfied(context.Background(), "goal", core.NewContext("goal")))
}

func TestGoalSatisfied_ModelError(t *testing.T) {
	mock := model.NewMockModel("planner", "mock")
	mock.FailWith(errors.New("offline"))

	s := NewSynthesizer(func(o *SynthesizerOptions) { o.Model = mock })
	assert.False(t, s.GoalSatisfied(context.Background(), "goal", core.NewContext("goal")))
}

// fixedModel returns the same text for every request, including empty text.
type fixedModel struct{ text string }

func (m *fixedModel) Complete(ctx context.Context, req model.Request) (model.Response, error) {
	return model.Response{Text: m.text}, nil
}

func (m *fixedModel) Info() model.Info { return model.Info{Name: "fixed", Provider: "mock"} }

package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/model"
)

// capturingModel remembers the last request so prompt assembly can be checked.
type capturingModel struct {
	lastReq model.Request
	text    string
	err     error
}

func (m *capturingModel) Complete(ctx context.Context, req model.Request) (model.Response, error) {
	m.lastReq = req
	if m.err != nil {
		return model.Response{}, m.err
	}
	return model.Response{Text: m.text}, nil
}

func (m *capturingModel) Info() model.Info { return model.Info{Name: "capturing", Provider: "mock"} }

func TestSummaryAgent_Process(t *testing.T) {
	mock := &capturingModel{text: "The Starlink 6-99 launch looks on track despite light rain."}
	agent := NewSummaryAgent(func(o *SummaryOptions) { o.Model = mock })

	c := core.NewContext("Will weather delay the launch?")
	c.Set("spacex_data", map[string]any{
		"mission_name": "Starlink 6-99",
		"launch_date":  "2026-09-15 14:30:00 UTC",
		"launch_site":  map[string]any{"name": "KSC LC 39A", "location": "Cape Canaveral", "region": "Florida"},
		"details":      "Batch of Starlink satellites.",
	})
	c.Set("weather_data", map[string]any{
		"type":                "current",
		"temperature":         24.5,
		"weather_condition":   "Rain",
		"weather_description": "light rain",
		"wind_speed":          4.2,
		"humidity":            70.0,
		"launch_assessment": map[string]any{
			"favorable": false,
			"concerns":  []string{"Unfavorable weather condition: Rain"},
			"summary":   "Weather conditions may cause launch delays: Unfavorable weather condition: Rain",
		},
	})
	c.Set("news_data", map[string]any{
		"articles": []map[string]any{
			{"title": "Falcon 9 set for Tuesday", "source": "Wire", "published_at": "2026-08-25T08:00:00Z", "description": "Launch window opens at dawn."},
		},
	})

	out := agent.Process(context.Background(), c)

	assert.Equal(t, "The Starlink 6-99 launch looks on track despite light rain.", out.GetString("summary"))

	prompt := mock.lastReq.Prompt
	assert.Contains(t, prompt, "User goal: Will weather delay the launch?")
	assert.Contains(t, prompt, "Mission: Starlink 6-99")
	assert.Contains(t, prompt, "Launch Site: KSC LC 39A, Cape Canaveral, Florida")
	assert.Contains(t, prompt, "Current Weather:")
	assert.Contains(t, prompt, "Condition: Rain - light rain")
	assert.Contains(t, prompt, "Favorable: false")
	assert.Contains(t, prompt, "- Unfavorable weather condition: Rain")
	assert.Contains(t, prompt, "1. Falcon 9 set for Tuesday")
	assert.Contains(t, mock.lastReq.Instructions, "summary agent for a multi-agent system")
}

func TestSummaryAgent_ProcessWithMissingData(t *testing.T) {
	mock := &capturingModel{text: "summary"}
	agent := NewSummaryAgent(func(o *SummaryOptions) { o.Model = mock })

	c := core.NewContext("what is bitcoin worth")
	c.Set("weather_data", map[string]any{"error": "no SpaceX launch data available"})

	agent.Process(context.Background(), c)

	prompt := mock.lastReq.Prompt
	assert.Contains(t, prompt, "No SpaceX information available")
	// Error-shaped weather data is treated as absent.
	assert.Contains(t, prompt, "No weather information available")
	assert.Contains(t, prompt, "No relevant news articles available")
}

func TestSummaryAgent_ProcessModelFailure(t *testing.T) {
	mock := &capturingModel{err: errors.New("model offline")}
	agent := NewSummaryAgent(func(o *SummaryOptions) { o.Model = mock })

	out := agent.Process(context.Background(), core.NewContext("goal"))

	assert.Equal(t, "Failed to create summary: model offline", out.GetString("summary"))
}

func TestSummaryAgent_Refine(t *testing.T) {
	mock := &capturingModel{text: "A sharper summary."}
	agent := NewSummaryAgent(func(o *SummaryOptions) { o.Model = mock })

	c := core.NewContext("goal")
	c.Set("summary", "A rough summary.")

	out := agent.Refine(context.Background(), c)

	assert.Equal(t, "A sharper summary.", out.GetString("summary"))
	assert.Equal(t, true, out["refined"])

	prompt := mock.lastReq.Prompt
	assert.Contains(t, prompt, "Current summary:\nA rough summary.")
	// The full context is inlined as JSON evidence.
	assert.True(t, strings.Contains(prompt, `"goal": "goal"`))
}

func TestSummaryAgent_RefineFailureKeepsOriginalSummary(t *testing.T) {
	mock := &capturingModel{err: errors.New("model offline")}
	agent := NewSummaryAgent(func(o *SummaryOptions) { o.Model = mock })

	c := core.NewContext("goal")
	c.Set("summary", "A rough summary.")

	out := agent.Refine(context.Background(), c)

	assert.Equal(t, "A rough summary.", out.GetString("summary"))
	assert.Equal(t, "Failed to refine summary: model offline", out.GetString("refinement_error"))
	assert.NotContains(t, out, "refined")
}

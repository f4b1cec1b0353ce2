package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/model"
)

func TestGeneralQAAgent_Process(t *testing.T) {
	mock := model.NewMockModel("test-model", "mock")
	mock.AddResponse("How tall is the Eiffel Tower?", "The Eiffel Tower is 330 metres tall.")

	agent := NewGeneralQAAgent(func(o *GeneralQAOptions) { o.Model = mock })

	out := agent.Process(context.Background(), core.NewContext("How tall is the Eiffel Tower?"))

	require.True(t, out.HasData("general_qa_data"))
	data := out.GetMap("general_qa_data")
	assert.Equal(t, "How tall is the Eiffel Tower?", data["question"])
	assert.Equal(t, "The Eiffel Tower is 330 metres tall.", data["answer"])
}

func TestGeneralQAAgent_ProcessWithoutModel(t *testing.T) {
	agent := NewGeneralQAAgent()

	out := agent.Process(context.Background(), core.NewContext("anything"))

	data := out.GetMap("general_qa_data")
	assert.Contains(t, data["answer"], "don't have access to the language model")
}

func TestGeneralQAAgent_ProcessModelFailure(t *testing.T) {
	mock := model.NewMockModel("test-model", "mock")
	mock.FailWith(errors.New("quota exhausted"))

	agent := NewGeneralQAAgent(func(o *GeneralQAOptions) { o.Model = mock })

	out := agent.Process(context.Background(), core.NewContext("anything"))

	// Model failures degrade to the canned answer instead of aborting.
	data := out.GetMap("general_qa_data")
	assert.Contains(t, data["answer"], "don't have access to the language model")
}

func TestBuildQuestion_EnrichesFromUpstreamAgents(t *testing.T) {
	c := core.NewContext("Is the launch on schedule?")
	c.Set("spacex_data", map[string]any{"mission_name": "Starlink 6-99"})
	c.Set("weather_data", map[string]any{"weather_condition": "Rain"})
	c.Set("wikipedia_data", map[string]any{
		"results": map[string]any{
			"starlink": map[string]any{"summary": "Starlink is a satellite internet constellation."},
		},
		"search_terms": []string{"starlink"},
	})

	question := buildQuestion(c)

	assert.Contains(t, question, "Is the launch on schedule?")
	assert.Contains(t, question, "SpaceX context: Starlink 6-99 mission.")
	assert.Contains(t, question, "Weather context: Rain.")
	assert.Contains(t, question, "Background: Starlink is a satellite internet constellation.")
}

func TestBuildQuestion_NoUpstreamContext(t *testing.T) {
	question := buildQuestion(core.NewContext("plain question"))
	assert.Equal(t, "plain question", question)
}

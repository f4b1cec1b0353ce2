package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/model"
)

// GeneralQAOptions configure the general Q&A agent.
type GeneralQAOptions struct {
	Model  model.Model
	Logger logging.Logger
}

// GeneralQAAgent answers open-ended questions with the language model,
// folding in context gathered by earlier pipeline steps. Without a model it
// degrades to a fixed apology answer.
type GeneralQAAgent struct {
	opts GeneralQAOptions
}

// NewGeneralQAAgent constructs the agent with optional overrides.
func NewGeneralQAAgent(optFns ...func(o *GeneralQAOptions)) *GeneralQAAgent {
	opts := GeneralQAOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &GeneralQAAgent{opts: opts}
}

// Name implements core.Agent.
func (a *GeneralQAAgent) Name() string { return core.AgentGeneralQA }

// Process implements core.Agent.
func (a *GeneralQAAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	question := buildQuestion(result)

	var answer string
	if a.opts.Model == nil {
		a.opts.Logger.Warn("no model configured, using mock answer")
		answer = mockAnswer
	} else {
		resp, err := a.opts.Model.Complete(ctx, model.Request{Prompt: question})
		if err != nil {
			a.opts.Logger.Warn("model call failed, using mock answer", "error", err)
			answer = mockAnswer
		} else {
			answer = resp.Text
		}
	}

	result.Set(core.DataKey(a.Name()), map[string]any{
		"question": question,
		"answer":   answer,
	})

	return result
}

const mockAnswer = "I'm sorry, I don't have access to the language model right now. " +
	"Please make sure your API key is set correctly in the .env file, or try again later."

// buildQuestion starts from the goal and appends context contributed by
// agents that ran earlier in the pipeline.
func buildQuestion(c core.Context) string {
	question := c.Goal()

	var sb strings.Builder
	if spacex := c.GetMap(core.DataKey(core.AgentSpaceX)); spacex != nil {
		if mission, ok := spacex["mission_name"].(string); ok && mission != "" {
			fmt.Fprintf(&sb, "SpaceX context: %s mission. ", mission)
		}
	}
	if weather := c.GetMap(core.DataKey(core.AgentWeather)); weather != nil {
		if condition, ok := weather["weather_condition"].(string); ok && condition != "" {
			fmt.Fprintf(&sb, "Weather context: %s. ", condition)
		}
	}
	if wiki := c.GetMap(core.DataKey(core.AgentWikipedia)); wiki != nil {
		results, _ := wiki["results"].(map[string]any)
		terms, _ := wiki["search_terms"].([]string)
		for _, term := range terms {
			entry, _ := results[term].(map[string]any)
			if summary, ok := entry["summary"].(string); ok && summary != "" {
				fmt.Fprintf(&sb, "Background: %s. ", summary)
				break
			}
		}
	}

	if sb.Len() > 0 {
		question = question + "\n\nAdditional context: " + strings.TrimSpace(sb.String())
	}
	return question
}

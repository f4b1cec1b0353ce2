package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/model"
)

const summaryInstructions = `You are a summary agent for a multi-agent system. Your job is to synthesize
information from multiple specialized agents and provide a comprehensive response
to the user's original goal.`

const summaryPromptTemplate = `User goal: %s

SpaceX launch information:
%s

Weather information:
%s

News information:
%s

Based on all this information, provide a comprehensive summary that addresses
the user's goal. Focus on the most important and relevant information. If there
are any potential issues or concerns (like weather conditions that might delay
a launch), be sure to highlight them.

Your summary should be well-structured, informative, and directly address the
user's goal.`

const refinePromptTemplate = `You are refining a summary to better address the user's goal. The current
summary may be incomplete or may not fully address the user's goal.

User goal: %s

Current summary:
%s

All available information:
%s

Please refine the summary to better address the user's goal. Make sure to
include any important information that might be missing and ensure that
the summary directly answers the user's query.`

// SummaryOptions configure the summary agent.
type SummaryOptions struct {
	Model  model.Model
	Logger logging.Logger
}

// SummaryAgent synthesizes the data gathered by earlier pipeline steps into a
// final answer under the "summary" key. It also supports a single refinement
// pass when the first summary does not satisfy the goal.
type SummaryAgent struct {
	opts SummaryOptions
}

// NewSummaryAgent constructs the agent with optional overrides.
func NewSummaryAgent(optFns ...func(o *SummaryOptions)) *SummaryAgent {
	opts := SummaryOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SummaryAgent{opts: opts}
}

// Name implements core.Agent.
func (a *SummaryAgent) Name() string { return core.AgentSummary }

// Process implements core.Agent. A model failure is recorded inside the
// summary value rather than aborting the pipeline.
func (a *SummaryAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	prompt := fmt.Sprintf(summaryPromptTemplate,
		result.Goal(),
		formatSpaceXInfo(result),
		formatWeatherInfo(result),
		formatNewsInfo(result),
	)

	summary, err := a.complete(ctx, prompt)
	if err != nil {
		a.opts.Logger.Error("summary generation failed", "error", err)
		summary = "Failed to create summary: " + err.Error()
	}
	result.Set(core.KeySummary, summary)

	return result
}

// Refine rewrites the current summary with the full context as evidence. On
// failure the original summary is kept and refinement_error records the cause.
func (a *SummaryAgent) Refine(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	prompt := fmt.Sprintf(refinePromptTemplate,
		result.Goal(),
		result.GetString(core.KeySummary),
		result.JSON(),
	)

	refined, err := a.complete(ctx, prompt)
	if err != nil {
		a.opts.Logger.Error("summary refinement failed", "error", err)
		result.Set(core.KeyRefinementError, "Failed to refine summary: "+err.Error())
		return result
	}

	result.Set(core.KeySummary, refined)
	result.Set(core.KeyRefined, true)

	return result
}

func (a *SummaryAgent) complete(ctx context.Context, prompt string) (string, error) {
	if a.opts.Model == nil {
		return "", fmt.Errorf("no model configured")
	}
	resp, err := a.opts.Model.Complete(ctx, model.Request{
		Instructions: summaryInstructions,
		Prompt:       prompt,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func formatSpaceXInfo(c core.Context) string {
	if !c.HasData(core.DataKey(core.AgentSpaceX)) {
		return "No SpaceX information available"
	}
	data := c.GetMap(core.DataKey(core.AgentSpaceX))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Mission: %v\n", valueOr(data["mission_name"], "Unknown"))
	fmt.Fprintf(&sb, "Launch Date: %v\n", valueOr(data["launch_date"], "Unknown"))

	site, _ := data["launch_site"].(map[string]any)
	fmt.Fprintf(&sb, "Launch Site: %v, %v, %v\n",
		valueOr(site["name"], "Unknown"),
		valueOr(site["location"], "Unknown"),
		valueOr(site["region"], "Unknown"),
	)
	fmt.Fprintf(&sb, "Details: %v", valueOr(data["details"], "No details available"))
	return sb.String()
}

func formatWeatherInfo(c core.Context) string {
	if !c.HasData(core.DataKey(core.AgentWeather)) {
		return "No weather information available"
	}
	data := c.GetMap(core.DataKey(core.AgentWeather))

	var sb strings.Builder
	if data["type"] == "current" {
		sb.WriteString("Current Weather:\n")
		fmt.Fprintf(&sb, "Temperature: %v°C\n", data["temperature"])
		fmt.Fprintf(&sb, "Condition: %v - %v\n", valueOr(data["weather_condition"], "Unknown"), data["weather_description"])
		fmt.Fprintf(&sb, "Wind Speed: %v m/s\n", data["wind_speed"])
		fmt.Fprintf(&sb, "Humidity: %v%%\n", data["humidity"])
	} else {
		fmt.Fprintf(&sb, "Weather Forecast for %v:\n", valueOr(data["forecast_date"], "upcoming launch"))
		fmt.Fprintf(&sb, "Average Temperature: %v°C\n", data["avg_temperature"])
		fmt.Fprintf(&sb, "Weather Condition: %v\n", valueOr(data["weather_condition"], "Unknown"))
		fmt.Fprintf(&sb, "Maximum Wind Speed: %v m/s\n", data["max_wind_speed"])
	}

	assessment, _ := data["launch_assessment"].(map[string]any)
	sb.WriteString("\nLaunch Conditions Assessment:\n")
	fmt.Fprintf(&sb, "Favorable: %v\n", valueOr(assessment["favorable"], false))

	if concerns, ok := assessment["concerns"].([]string); ok && len(concerns) > 0 {
		sb.WriteString("Concerns:\n")
		for _, concern := range concerns {
			fmt.Fprintf(&sb, "- %s\n", concern)
		}
	}
	fmt.Fprintf(&sb, "Summary: %v", assessment["summary"])
	return sb.String()
}

func formatNewsInfo(c core.Context) string {
	if !c.HasData(core.DataKey(core.AgentNews)) {
		return "No relevant news articles available"
	}
	data := c.GetMap(core.DataKey(core.AgentNews))
	articles, _ := data["articles"].([]map[string]any)
	if len(articles) == 0 {
		return "No relevant news articles available"
	}

	var sb strings.Builder
	sb.WriteString("Relevant News Articles:\n")
	for i, article := range articles {
		fmt.Fprintf(&sb, "%d. %v\n", i+1, article["title"])
		fmt.Fprintf(&sb, "   Source: %v\n", article["source"])
		fmt.Fprintf(&sb, "   Published: %v\n", article["published_at"])
		fmt.Fprintf(&sb, "   Description: %v\n\n", article["description"])
	}
	return sb.String()
}

func valueOr(v any, fallback any) any {
	if v == nil || v == "" {
		return fallback
	}
	return v
}

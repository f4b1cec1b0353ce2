// Package planner turns a natural-language goal into an ordered agent plan
// and evaluates whether a finished run satisfied the goal. Plan synthesis
// prefers a generative model; a deterministic keyword classifier covers
// model-less operation and unparsable model output.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/model"
)

const planInstructions = `You are a planning agent for a multi-agent system. Your job is to break down
user goals into steps that can be executed by specialized agents.`

const planPromptTemplate = `Available agents:
- spacex: Gets information about SpaceX launches
- weather: Gets weather information for specific locations
- news: Gets relevant news articles
- wikipedia: Gets general knowledge information from Wikipedia
- movies: Gets information about movies and TV shows
- crypto: Gets information about cryptocurrencies
- recipe: Gets recipes and food information
- general_qa: Handles general questions and knowledge queries
- summary: Synthesizes information and provides final output

User goal: %s

Create a plan with the following format:
{
    "goal": "The original user goal",
    "steps": [
        {
            "agent": "Name of the agent to call",
            "purpose": "What this agent should accomplish"
        },
        ...
    ]
}

Important: Only include agents that are relevant to the user's goal. Always include the summary agent as the final step.

Return only the JSON plan without any additional text.`

const satisfactionPromptTemplate = `You are evaluating whether a user's goal has been satisfied based on the
final result from a multi-agent system.

User goal: %s

Final result: %s

Has the goal been fully satisfied? Answer with only 'yes' or 'no'.`

// SynthesizerOptions configure the planner.
type SynthesizerOptions struct {
	Model  model.Model
	Logger logging.Logger
}

// Synthesizer produces Plans and runs the goal-satisfaction check.
type Synthesizer struct {
	opts SynthesizerOptions
}

// NewSynthesizer constructs a Synthesizer with optional overrides. A nil
// model is valid: planning then always takes the keyword fallback and the
// satisfaction check always reports not satisfied.
func NewSynthesizer(optFns ...func(o *SynthesizerOptions)) *Synthesizer {
	opts := SynthesizerOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Synthesizer{opts: opts}
}

// CreatePlan synthesizes a Plan for the goal. It never fails: any model or
// parse problem falls back to the keyword classifier, and the returned Plan's
// Source records which path produced it.
func (s *Synthesizer) CreatePlan(ctx context.Context, goal string) core.Plan {
	if s.opts.Model == nil {
		s.opts.Logger.Debug("no model configured, planning via keyword fallback")
		return s.fallbackPlan(goal)
	}

	resp, err := s.opts.Model.Complete(ctx, model.Request{
		Instructions: planInstructions,
		Prompt:       fmt.Sprintf(planPromptTemplate, goal),
	})
	if err != nil {
		s.opts.Logger.Warn("plan synthesis model call failed, using fallback", "error", err)
		return s.fallbackPlan(goal)
	}

	plan, err := parsePlan(resp.Text)
	if err != nil {
		s.opts.Logger.Warn("could not parse model plan, using fallback", "error", err)
		return s.fallbackPlan(goal)
	}

	plan.Goal = goal
	plan.Source = core.PlanSourceModel

	// The summary step is terminal in every plan.
	if n := len(plan.Steps); n == 0 || plan.Steps[n-1].Agent != core.AgentSummary {
		plan.Append(core.AgentSummary, "Synthesize information and provide final answer")
	}

	s.opts.Logger.Info("plan synthesized by model", "steps", len(plan.Steps))
	return plan
}

// parsePlan decodes a model response into a Plan. Responses wrapped in
// markdown code fences are unwrapped first. Any shape other than a goal
// string plus a list of {agent, purpose} steps is a parse failure.
func parsePlan(text string) (core.Plan, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var plan core.Plan
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&plan); err != nil {
		return core.Plan{}, fmt.Errorf("invalid plan json: %w", err)
	}
	if len(plan.Steps) == 0 {
		return core.Plan{}, fmt.Errorf("plan has no steps")
	}
	for i, step := range plan.Steps {
		if step.Agent == "" {
			return core.Plan{}, fmt.Errorf("plan step %d has no agent", i)
		}
	}
	return plan, nil
}

// keywordRule maps an agent to the substrings that select it during
// fallback planning. Rules apply in declaration order regardless of where
// the keywords occur in the goal.
type keywordRule struct {
	agent    string
	purpose  string
	keywords []string
}

var fallbackRules = []keywordRule{
	{core.AgentSpaceX, "Get SpaceX launch information", []string{"spacex", "space", "rocket", "launch"}},
	{core.AgentWeather, "Get weather information", []string{"weather", "temperature", "forecast", "rain", "snow", "climate"}},
	{core.AgentNews, "Get relevant news articles", []string{"news", "article", "recent", "latest", "update"}},
	{core.AgentWikipedia, "Get general knowledge information", []string{"wikipedia", "wiki", "who is", "information", "about", "explain", "definition", "history"}},
	{core.AgentMovies, "Get movie or TV show information", []string{"movie", "film", "tv", "show", "actor", "actress", "director", "watch", "streaming"}},
	{core.AgentCrypto, "Get cryptocurrency information", []string{"crypto", "bitcoin", "ethereum", "coin", "blockchain", "price", "market"}},
}

var generalQAIndicators = []string{
	"how", "why", "when", "where", "which", "can you", "could you",
	"tell me", "explain", "describe", "what's", "whats", "help me understand",
}

// fallbackPlan classifies the goal against the keyword table. Matching
// agents are appended in table order; a general Q&A step covers question-like
// goals and acts as the last resort, and summary is always terminal.
func (s *Synthesizer) fallbackPlan(goal string) core.Plan {
	plan := core.Plan{Goal: goal, Source: core.PlanSourceFallback}
	lower := strings.ToLower(goal)

	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				plan.Append(rule.agent, rule.purpose)
				break
			}
		}
	}

	for _, indicator := range generalQAIndicators {
		if strings.Contains(lower, indicator) {
			plan.Append(core.AgentGeneralQA, "Answer general knowledge questions")
			break
		}
	}

	if len(plan.Steps) == 0 {
		plan.Append(core.AgentGeneralQA, "Answer general knowledge questions")
	}

	plan.Append(core.AgentSummary, "Synthesize information and provide final answer")

	s.opts.Logger.Info("plan built via keyword fallback", "steps", len(plan.Steps))
	return plan
}

// SatisfactionPrompt renders the evaluation prompt for a goal and the final
// context of its run.
func SatisfactionPrompt(goal string, result core.Context) string {
	return fmt.Sprintf(satisfactionPromptTemplate, goal, result.JSON())
}

// GoalSatisfied reports whether the final context answers the goal. Only an
// exact trimmed case-insensitive "yes" counts; a missing model, a model
// error, or any other response is conservatively not satisfied.
func (s *Synthesizer) GoalSatisfied(ctx context.Context, goal string, result core.Context) bool {
	if s.opts.Model == nil {
		s.opts.Logger.Debug("no model configured, treating goal as not satisfied")
		return false
	}

	resp, err := s.opts.Model.Complete(ctx, model.Request{
		Prompt: SatisfactionPrompt(goal, result),
	})
	if err != nil {
		s.opts.Logger.Warn("goal satisfaction check failed", "error", err)
		return false
	}

	return strings.EqualFold(strings.TrimSpace(resp.Text), "yes")
}

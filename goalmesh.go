// Package goalmesh provides a high-level façade over the goal-driven
// orchestration engine. Most applications interact with this package by:
//  1. Loading a Config (config.Load) or building Options by hand
//  2. Creating a System via New()
//  3. Calling ProcessGoal for each user goal
//
// The façade wires the planner, the agent registry, and the orchestrator
// together. All defaults are safe for local development: without provider
// credentials the system plans via the deterministic keyword fallback and
// the agents serve mock or error-shaped data.
package goalmesh

import (
	"context"
	"net/http"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/goalmesh/goalmesh/agent"
	"github.com/goalmesh/goalmesh/config"
	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/model"
	"github.com/goalmesh/goalmesh/model/anthropic"
	"github.com/goalmesh/goalmesh/model/openai"
	"github.com/goalmesh/goalmesh/orchestrator"
	"github.com/goalmesh/goalmesh/planner"
)

// Options configure a System.
type Options struct {
	// Config supplies provider credentials and tunables; nil means all
	// defaults (fully degraded operation).
	Config *config.Config

	// Model overrides the provider selected by Config.ModelProvider.
	Model model.Model

	// Logger defaults to a console logger derived from Config.
	Logger logging.Logger

	// HTTPClient is shared by all data-fetching agents.
	HTTPClient *http.Client

	// ExtraAgents are registered in addition to (or overriding, by name)
	// the built-in capability set.
	ExtraAgents []core.Agent
}

// System is the high-level façade aggregating planner, registry and
// orchestrator.
type System struct {
	opts         Options
	model        model.Model
	registry     *orchestrator.Registry
	orchestrator *orchestrator.Orchestrator
}

// New creates a System with the full built-in agent set registered.
func New(optFns ...func(o *Options)) *System {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewConsoleLogger(cfg.Debug)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil && cfg.HTTPTimeout > 0 {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	m := opts.Model
	if m == nil {
		m = modelFromConfig(cfg, logger)
	}

	registry := orchestrator.NewRegistry(
		agent.NewSpaceXAgent(func(o *agent.SpaceXOptions) {
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewWeatherAgent(func(o *agent.WeatherOptions) {
			o.APIKey = cfg.OpenWeatherAPIKey
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewNewsAgent(func(o *agent.NewsOptions) {
			o.APIKey = cfg.NewsAPIKey
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewWikipediaAgent(func(o *agent.WikipediaOptions) {
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewMoviesAgent(func(o *agent.MoviesOptions) {
			o.APIKey = cfg.OMDBAPIKey
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewCryptoAgent(func(o *agent.CryptoOptions) {
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewRecipeAgent(func(o *agent.RecipeOptions) {
			o.APIKey = cfg.SpoonacularAPIKey
			o.Client = httpClient
			o.Logger = logger
		}),
		agent.NewGeneralQAAgent(func(o *agent.GeneralQAOptions) {
			o.Model = m
			o.Logger = logger
		}),
		agent.NewSummaryAgent(func(o *agent.SummaryOptions) {
			o.Model = m
			o.Logger = logger
		}),
	)
	for _, a := range opts.ExtraAgents {
		registry.Register(a)
	}

	p := planner.NewSynthesizer(func(o *planner.SynthesizerOptions) {
		o.Model = m
		o.Logger = logger
	})

	orch := orchestrator.New(p, registry, func(o *orchestrator.Options) {
		o.Logger = logger
	})

	return &System{
		opts:         opts,
		model:        m,
		registry:     registry,
		orchestrator: orch,
	}
}

// modelFromConfig builds the provider selected by the configuration, or nil
// when no provider is configured.
func modelFromConfig(cfg *config.Config, logger logging.Logger) model.Model {
	switch cfg.ModelProvider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
			o.APIKey = cfg.OpenAIAPIKey
		})
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
			o.APIKey = cfg.AnthropicAPIKey
		})
	case "mock":
		return model.NewMockModel("mock", "mock")
	case "":
		logger.Warn("no model provider configured, running with fallback planner and mock answers")
		return nil
	default:
		logger.Warn("unknown model provider, running without model", "provider", cfg.ModelProvider)
		return nil
	}
}

// ProcessGoal runs one goal through the pipeline and returns its Result.
func (s *System) ProcessGoal(ctx context.Context, goal string) orchestrator.Result {
	return s.orchestrator.ProcessGoal(ctx, goal)
}

// Model returns the configured generative model, or nil in degraded mode.
func (s *System) Model() model.Model { return s.model }

// Capabilities lists the registered agent names.
func (s *System) Capabilities() []string { return s.registry.Names() }

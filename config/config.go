// Package config loads runtime configuration from environment variables, with
// optional .env file export. Credentials for the external data providers are
// all optional: agents without a key fall back to deterministic mock data.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "goalmesh"

// Config holds every tunable of the system. Zero values are safe: without any
// provider credentials the engine runs fully degraded on mock data and the
// deterministic fallback planner.
type Config struct {
	// ModelProvider selects the generative collaborator: "openai",
	// "anthropic" or "" for none (fallback planner + mock answers).
	ModelProvider string `envconfig:"MODEL_PROVIDER"`
	ModelName     string `envconfig:"MODEL_NAME"`

	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey   string `envconfig:"ANTHROPIC_API_KEY"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	NewsAPIKey        string `envconfig:"NEWSAPI_API_KEY"`
	OMDBAPIKey        string `envconfig:"OMDB_API_KEY"`
	SpoonacularAPIKey string `envconfig:"SPOONACULAR_API_KEY"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	Debug      bool `envconfig:"DEBUG" default:"false"`
	PrettyLogs bool `envconfig:"PRETTY_LOGS" default:"true"`
}

// MustLoad is Load that panics on failure. Intended for main().
func MustLoad(envFile string) *Config {
	conf, err := Load(envFile)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load reads configuration from the process environment, first exporting the
// given .env file when set (or ./.env when present).
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf Config
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(val)); err != nil {
			return err
		}
	}

	return nil
}

package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nash-core-poc/server/internal/agent/model"
	"github.com/nash-core-poc/server/internal/core"
	logx "github.com/nash-core-poc/server/pkg/logger"
	pkgredis "github.com/nash-core-poc/server/pkg/redis"
	"github.com/nash-core-poc/server/pkg/tracing"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`
	HTTPAddr    string           `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis   pkgredis.Config
	Tracing tracing.Config

	// Loop, advisor and estimator
	Agent     model.AgentConfig
	Advisor   model.AdvisorConfig
	Estimator model.EstimatorConfig
	Session   model.SessionConfig
}

// LoadConfig reads envFile when present and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return AppConfig{}, fmt.Errorf("load %s: %w", envFile, err)
			}
			logx.Debug().Str("file", envFile).Msg("env file not found; using process environment")
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.Agent.MaxSteps < 1 {
		return AppConfig{}, fmt.Errorf("AGENT_MAX_STEPS must be at least 1, got %d", cfg.Agent.MaxSteps)
	}
	if cfg.Agent.AdvisorTimeout <= 0 {
		return AppConfig{}, fmt.Errorf("AGENT_ADVISOR_TIMEOUT must be positive")
	}
	return cfg, nil
}

package model

import "time"

// ================ Config ================
type AgentConfig struct {
	MaxSteps          int           `envconfig:"AGENT_MAX_STEPS" default:"6"`
	AdvisorTimeout    time.Duration `envconfig:"AGENT_ADVISOR_TIMEOUT" default:"60s"`
	ContextMaxEntries int           `envconfig:"AGENT_CONTEXT_MAX_ENTRIES" default:"20"`
}

type AdvisorConfig struct {
	Provider        string  `envconfig:"ADVISOR_PROVIDER" default:"gemini"`
	Model           string  `envconfig:"ADVISOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens       int     `envconfig:"ADVISOR_MAX_TOKENS" default:"2000"`
	Temperature     float32 `envconfig:"ADVISOR_TEMPERATURE" default:"0.1"`
	GeminiAPIKey    string  `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL   string  `envconfig:"GEMINI_BASE_URL"`
	AnthropicAPIKey string  `envconfig:"ANTHROPIC_API_KEY"`
}

type EstimatorConfig struct {
	CacheSize        int    `envconfig:"ESTIMATOR_CACHE_SIZE" default:"256"`
	SweepConcurrency int    `envconfig:"ESTIMATOR_SWEEP_CONCURRENCY" default:"4"`
	MaterialsFile    string `envconfig:"MATERIALS_FILE"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	// MemoryMaxSessions caps the in-memory store used when Redis is not configured
	MemoryMaxSessions int `envconfig:"SESSION_MEMORY_MAX_SESSIONS" default:"1024"`
}

// DefaultAgentConfig mirrors the envconfig defaults for callers that build
// the loop without the environment, tests included.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{MaxSteps: 6, AdvisorTimeout: 60 * time.Second, ContextMaxEntries: 20}
}

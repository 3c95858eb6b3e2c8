package advisors

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/nash-core-poc/server/internal/agent/model"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

// NewGemini builds a ChatModelAdvisor over the Eino Gemini chat model.
func NewGemini(ctx context.Context, cfg model.AdvisorConfig) (*ChatModelAdvisor, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating theorist model")
		return nil, fmt.Errorf("error creating theorist model: %w", err)
	}

	return NewChatModelAdvisor(chatModel, cfg.Model), nil
}

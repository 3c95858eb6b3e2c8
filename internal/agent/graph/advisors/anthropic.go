package advisors

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/schema"

	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
)

// AnthropicAdvisor calls the Claude Messages API directly.
type AnthropicAdvisor struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewAnthropic(cfg model.AdvisorConfig, opts ...option.RequestOption) *AnthropicAdvisor {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}, opts...)
	return &AnthropicAdvisor{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (a *AnthropicAdvisor) Decide(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(float64(a.temperature)),
	}

	var system []string
	for _, m := range messages {
		if m == nil || m.Content == "" {
			continue
		}
		switch m.Role {
		case schema.System:
			system = append(system, m.Content)
		case schema.Assistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}
	if len(params.Messages) == 0 {
		return nil, errx.Unavailable(fmt.Errorf("no user message to send"), "anthropic request invalid")
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errx.Unavailable(fmt.Errorf("anthropic API call failed: %w", err), "anthropic request failed")
	}

	var text []string
	for i := range resp.Content {
		if block := &resp.Content[i]; block.Type == "text" {
			text = append(text, block.Text)
		}
	}

	out := schema.AssistantMessage(strings.Join(text, ""), nil)
	out.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(resp.StopReason),
		Usage: &schema.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}
	return out, nil
}

func (a *AnthropicAdvisor) ModelName() string {
	return a.model
}

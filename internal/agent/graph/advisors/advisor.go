package advisors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
)

// Advisor is the advisory reasoning service. It turns the rendered prompt
// into one free-text decision. Errors are fatal for the run.
type Advisor interface {
	Decide(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
	// ModelName is used to look up pricing
	ModelName() string
}

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// New builds the advisor selected by cfg.Provider. A missing credential is
// not an error here: the returned advisor fails every call, so runs end with
// an advisory-unavailable answer instead of the process refusing to start.
func New(ctx context.Context, cfg model.AdvisorConfig) (Advisor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Unavailable(cfg.Model, errors.New("GEMINI_API_KEY not set")), nil
		}
		return NewGemini(ctx, cfg)
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return Unavailable(cfg.Model, errors.New("ANTHROPIC_API_KEY not set")), nil
		}
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", cfg.Provider)
	}
}

type unavailable struct {
	model string
	err   error
}

// Unavailable returns an advisor whose every call fails with err.
func Unavailable(modelName string, err error) Advisor {
	return &unavailable{model: modelName, err: errx.Unavailable(err, "advisor unavailable")}
}

func (u *unavailable) Decide(context.Context, []*schema.Message) (*schema.Message, error) {
	return nil, u.err
}

func (u *unavailable) ModelName() string {
	return u.model
}

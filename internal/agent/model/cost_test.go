package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestResolvePricing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Pricing{InputPerM: 0.30, OutputPerM: 2.50}, ResolvePricing("gemini-2.5-flash"))
	assert.Equal(t, Pricing{InputPerM: 0.10, OutputPerM: 0.40}, ResolvePricing("gemini-2.5-flash-lite"))
	assert.Equal(t, Pricing{InputPerM: 1.00, OutputPerM: 5.00}, ResolvePricing("claude-haiku-4-5-20251001"))
	assert.Equal(t, Pricing{}, ResolvePricing("mystery-model"))
}

func TestComputeCost(t *testing.T) {
	t.Parallel()

	in, out, total := ComputeCost(&schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 200_000}, Pricing{InputPerM: 0.30, OutputPerM: 2.50})
	assert.InDelta(t, 0.30, in, 1e-12)
	assert.InDelta(t, 0.50, out, 1e-12)
	assert.InDelta(t, 0.80, total, 1e-12)

	_, _, total = ComputeCost(nil, Pricing{InputPerM: 1})
	assert.Zero(t, total)
}

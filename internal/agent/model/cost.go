package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M tokens (text tokens).
var defaultPricing = map[string]Pricing{
	// Source: Gemini pricing (Standard; text). Adjust for audio/image if needed.
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.5-pro":        {InputPerM: 1.25, OutputPerM: 10.00},

	// Source: Anthropic pricing (text).
	"claude-sonnet-4-5": {InputPerM: 3.00, OutputPerM: 15.00},
	"claude-haiku-4-5":  {InputPerM: 1.00, OutputPerM: 5.00},
}

// ResolvePricing returns hardcoded pricing for a model.
// Dated snapshot names such as "claude-haiku-4-5-20251001" fall back to the base name.
func ResolvePricing(model string) Pricing {
	if p, ok := defaultPricing[model]; ok {
		return p
	}
	best, match := "", Pricing{}
	for name, p := range defaultPricing {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best, match = name, p
		}
	}
	// unknown models cost zero
	return match
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}

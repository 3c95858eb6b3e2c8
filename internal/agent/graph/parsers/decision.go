package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nash-core-poc/server/internal/agent/model"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxErrSnippet = 200        // limit error snippet size
)

// StripCodeFences removes a leading ``` line (with optional language tag)
// and a trailing ``` line around an advisor reply.
func StripCodeFences(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseDecision decodes an advisor reply into a model.Decision. It never
// fails: anything that is not a JSON object becomes model.Malformed.
func ParseDecision(content string) model.Decision {
	if len(content) > maxContentLen {
		return model.Malformed{Err: fmt.Errorf("decision too large: %d bytes", len(content))}
	}
	if !utf8.ValidString(content) {
		return model.Malformed{Err: fmt.Errorf("decision is not valid UTF-8")}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return model.Malformed{Err: fmt.Errorf("decode decision %q: %w", safeSnippet(content), err)}
	}
	if data == nil {
		return model.Malformed{Err: fmt.Errorf("decision is null")}
	}

	action, _ := data["action"].(string)
	switch action {
	case model.ActionSimulate:
		return model.Simulate{
			T:             data["T"],
			D:             data["D"],
			MaterialProps: data["material_props"],
		}
	case model.ActionAnswer:
		switch text := data["text"].(type) {
		case nil:
			return model.Answer{}
		case string:
			return model.Answer{Text: text}
		default:
			return model.Malformed{Err: fmt.Errorf("answer text must be a string, got %T", text)}
		}
	default:
		return model.Unknown{Action: action, Raw: safeSnippet(content)}
	}
}

func safeSnippet(s string) string {
	if len(s) <= maxErrSnippet {
		return s
	}
	cut := maxErrSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

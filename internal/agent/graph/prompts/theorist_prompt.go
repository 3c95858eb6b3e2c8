package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nash-core-poc/server/internal/agent/model"
	"github.com/nash-core-poc/server/internal/physics"
)

//go:embed template/theorist_prompt.txt
var theoristSystemPrompt string

const theoristUserPrompt = `Question: {{.Question}}
{{- if .Context}}
Earlier in this session:
{{.Context}}
{{- end}}
History:
{{.History}}`

// TheoristInput is everything the theorist prompt needs for one REASON pass.
type TheoristInput struct {
	Question string
	Context  []string
	History  []string
	Catalog  *physics.Catalog
}

// RenderTheorist renders the system and user messages via the Eino prompt
// component (Go template), which also emits prompt callbacks. The stop rule
// is appended when History already holds an observation.
func RenderTheorist(ctx context.Context, in TheoristInput) ([]*schema.Message, error) {
	catalog := in.Catalog
	if catalog == nil {
		catalog = physics.DefaultCatalog()
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(theoristSystemPrompt),
		schema.UserMessage(theoristUserPrompt),
	)
	vars := map[string]any{
		"Question":        in.Question,
		"Context":         formatEntries(in.Context),
		"History":         formatEntries(in.History),
		"HasObservation":  model.HasObservation(in.History),
		"Materials":       catalog.Profiles(),
		"DefaultMaterial": catalog.Default().Name,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("theorist prompt render: %w", err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return nil, fmt.Errorf("theorist prompt render: unexpected result")
	}
	return msgs, nil
}

func formatEntries(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, e)
	}
	return b.String()
}

package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/nash-core-poc/server/internal/agent/model"
)

// NewShouldContinueCondition routes after REASON: END once answered or out
// of steps, TOOL otherwise.
func NewShouldContinueCondition(maxSteps int) func(context.Context, *model.AgentState) (string, error) {
	return func(ctx context.Context, s *model.AgentState) (string, error) {
		if s.Resolved() || s.StepCount >= maxSteps {
			return compose.END, nil
		}
		return NodeTool, nil
	}
}

// NewAfterToolCondition routes after TOOL: END when the tool step set an
// answer (refusal, unknown action, final answer), REASON otherwise.
func NewAfterToolCondition() func(context.Context, *model.AgentState) (string, error) {
	return func(ctx context.Context, s *model.AgentState) (string, error) {
		if s.Resolved() {
			return compose.END, nil
		}
		return NodeReason, nil
	}
}

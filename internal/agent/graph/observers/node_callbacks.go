package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/rs/zerolog"

	"github.com/nash-core-poc/server/internal/agent/model"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

// newNodeHandler logs each REASON/TOOL pass with the loop counters.
func newNodeHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, input einocb.CallbackInput) context.Context {
			withState(logx.Debug(), info, input).Msg("node start")
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, output einocb.CallbackOutput) context.Context {
			ev := withState(logx.Debug(), info, output)
			if s, ok := output.(*model.AgentState); ok && s != nil {
				ev = ev.Bool("resolved", s.Resolved()).Int("errors", len(s.ErrorLog))
			}
			ev.Msg("node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("node", info.Name).Msg("node error")
			return ctx
		}).
		Build()
}

func withState(ev *zerolog.Event, info *einocb.RunInfo, v any) *zerolog.Event {
	ev = ev.Str("node", info.Name)
	if s, ok := v.(*model.AgentState); ok && s != nil {
		ev = ev.Str("run_id", s.RunID).Int("step", s.StepCount).Int("history", len(s.History))
	}
	return ev
}

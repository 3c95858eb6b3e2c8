package nodes

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nash-core-poc/server/internal/agent/graph/parsers"
	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/nash-core-poc/server/internal/metrics"
	"github.com/nash-core-poc/server/internal/physics"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

// ToolExecutor runs the TOOL step: it executes the pending decision under the
// duplicate-simulation guard.
type ToolExecutor struct {
	Estimator physics.Estimator
	Catalog   *physics.Catalog
	Metrics   *metrics.Metrics
	Tracer    trace.Tracer
}

func (t *ToolExecutor) tracer() trace.Tracer {
	if t.Tracer != nil {
		return t.Tracer
	}
	return otel.Tracer(tracerName)
}

func (t *ToolExecutor) Execute(ctx context.Context, s *model.AgentState) (*model.AgentState, error) {
	if s.Resolved() {
		return s, nil
	}

	_, span := t.tracer().Start(ctx, "theorist.tool", trace.WithAttributes(
		attribute.String("run_id", s.RunID),
		attribute.Int("step", s.StepCount),
	))
	defer span.End()

	decision := parsers.ParseDecision(s.PendingDecision)
	s.PendingDecision = ""

	switch d := decision.(type) {
	case model.Simulate:
		span.SetAttributes(attribute.String("action", model.ActionSimulate))
		if model.HasObservation(s.History) {
			logx.Warn().Str("run_id", s.RunID).Int("step", s.StepCount).Msg("simulation blocked after prior observation")
			s.Append(model.MsgDuplicateRefused)
			t.fail(s, errx.KindDuplicateSimulation, "simulation blocked after prior observation")
			s.Finish(model.MsgDuplicateAnswer, model.OutcomeDuplicateSimulation)
			return s, nil
		}
		res := t.simulate(d)
		span.SetAttributes(attribute.String("estimate_status", string(res.Status)))
		s.Append(model.Observation(res))
		s.Answer = ""

	case model.Answer:
		span.SetAttributes(attribute.String("action", model.ActionAnswer))
		s.Answer = d.Text
		if d.Text != "" {
			s.Outcome = model.OutcomeAnswered
		}

	case model.Malformed:
		logx.Warn().Err(d.Err).Str("run_id", s.RunID).Int("step", s.StepCount).Msg("theorist produced invalid JSON")
		s.Append(model.MsgInvalidJSON)
		t.fail(s, errx.KindMalformedDecision, d.Err.Error())

	case model.Unknown:
		span.SetAttributes(attribute.String("action", d.Action))
		logx.Warn().Str("run_id", s.RunID).Str("action", d.Action).Msg("theorist returned an unknown action")
		s.Append(model.MsgUnknownAction)
		t.fail(s, errx.KindUnknownAction, fmt.Sprintf("unknown action payload: %s", d.Raw))
		s.Finish(model.MsgUnknownAction, model.OutcomeUnknownAction)

	default:
		return s, fmt.Errorf("unhandled decision type %T", decision)
	}
	return s, nil
}

func (t *ToolExecutor) simulate(d model.Simulate) physics.Result {
	req, err := physics.NewRequest(d.T, d.D, d.MaterialProps, t.Catalog)
	if err != nil {
		logx.Warn().Err(err).Msg("estimator input rejected")
		return physics.ErrorResult(err)
	}
	est := t.Estimator
	if est == nil {
		est = physics.Callaway
	}

	start := time.Now()
	res := est.Estimate(req)
	logx.Debug().
		Str("status", string(res.Status)).
		Float64("k_wmk", res.K).
		Float64("T_K", req.TemperatureK).
		Float64("D_nm", req.DiameterNM).
		Str("material", req.Material.Name).
		Dur("took", time.Since(start)).
		Msg("estimator run")
	return res
}

func (t *ToolExecutor) fail(s *model.AgentState, kind errx.Kind, msg string) {
	s.RecordError(kind, msg)
	t.Metrics.LoopError(string(kind))
}

package nodes

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nash-core-poc/server/internal/agent/graph/advisors"
	"github.com/nash-core-poc/server/internal/agent/graph/parsers"
	"github.com/nash-core-poc/server/internal/agent/graph/prompts"
	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/nash-core-poc/server/internal/metrics"
	"github.com/nash-core-poc/server/internal/physics"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

// Reasoner runs the REASON step: it asks the advisor for the next decision.
type Reasoner struct {
	Advisor        advisors.Advisor
	Catalog        *physics.Catalog
	MaxSteps       int
	AdvisorTimeout time.Duration
	Metrics        *metrics.Metrics
	Tracer         trace.Tracer
}

func (r *Reasoner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer(tracerName)
}

// Reason is a no-op once the run has an answer. Otherwise it counts the step,
// enforces the step limit and records the advisor's decision.
func (r *Reasoner) Reason(ctx context.Context, s *model.AgentState) (*model.AgentState, error) {
	if s.Resolved() {
		return s, nil
	}

	ctx, span := r.tracer().Start(ctx, "theorist.reason", trace.WithAttributes(
		attribute.String("run_id", s.RunID),
		attribute.Int("step", s.StepCount+1),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		r.fail(s, errx.KindCancelled, err.Error())
		s.Finish(model.CancelledMessage(err), model.OutcomeCancelled)
		span.SetStatus(codes.Error, "cancelled")
		return s, nil
	}

	s.StepCount++
	r.Metrics.ReasonStep()
	if s.StepCount >= r.MaxSteps {
		logx.Warn().Str("run_id", s.RunID).Int("step", s.StepCount).Msg("step limit reached without a final answer")
		s.Finish(model.StepLimitMessage(r.MaxSteps), model.OutcomeStepLimit)
		span.SetAttributes(attribute.Bool("step_limit", true))
		return s, nil
	}

	msgs, err := prompts.RenderTheorist(ctx, prompts.TheoristInput{
		Question: s.Question,
		Context:  s.Context,
		History:  s.History,
		Catalog:  r.Catalog,
	})
	if err != nil {
		logx.Error().Err(err).Str("run_id", s.RunID).Msg("Error rendering theorist prompt")
		r.fail(s, errx.KindInternal, err.Error())
		s.Finish(model.FailedMessage(err), model.OutcomeFailed)
		span.RecordError(err)
		return s, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.AdvisorTimeout)
	start := time.Now()
	out, err := r.Advisor.Decide(callCtx, msgs)
	cancel()
	if err != nil {
		r.Metrics.ObserveAdvisor(r.Advisor.ModelName(), time.Since(start), err, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "advisor failed")
		if ctx.Err() != nil {
			r.fail(s, errx.KindCancelled, ctx.Err().Error())
			s.Finish(model.CancelledMessage(ctx.Err()), model.OutcomeCancelled)
			return s, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = errx.Unavailable(err, "advisor timed out")
		}
		logx.Error().Err(err).Str("run_id", s.RunID).Int("step", s.StepCount).Msg("advisory service unavailable")
		r.fail(s, errx.KindAdvisoryUnavailable, err.Error())
		s.Finish(model.AdvisorUnavailableMessage(err), model.OutcomeAdvisorUnavailable)
		return s, nil
	}

	cost := recordUsage(out, s, r.Advisor.ModelName())
	r.Metrics.ObserveAdvisor(r.Advisor.ModelName(), time.Since(start), nil, cost)

	decision := parsers.StripCodeFences(out.Content)
	s.PendingDecision = decision
	s.Append(model.Thought(decision))
	span.SetAttributes(attribute.Int("decision_chars", len(decision)))
	return s, nil
}

func (r *Reasoner) fail(s *model.AgentState, kind errx.Kind, msg string) {
	s.RecordError(kind, msg)
	r.Metrics.LoopError(string(kind))
}

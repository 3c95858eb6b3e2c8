package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/nash-core-poc/server/internal/agent/graph/advisors"
	"github.com/nash-core-poc/server/internal/agent/graph/conversations"
	"github.com/nash-core-poc/server/internal/agent/graph/nodes"
	"github.com/nash-core-poc/server/internal/agent/graph/observers"
	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/nash-core-poc/server/internal/metrics"
	"github.com/nash-core-poc/server/internal/physics"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

// Runner executes one theorist loop run per question.
type Runner interface {
	Run(ctx context.Context, in model.QueryInput) (model.RunResult, error)
}

// Config holds everything needed to compose the theorist graph end-to-end.
type Config struct {
	Advisor   advisors.Advisor
	Estimator physics.Estimator
	Catalog   *physics.Catalog
	Agent     model.AgentConfig
	Sessions  *conversations.SessionManager
	Metrics   *metrics.Metrics
	Tracer    trace.Tracer
}

func (c *Config) normalize() error {
	if c.Advisor == nil {
		return fmt.Errorf("advisor is nil")
	}
	if c.Estimator == nil {
		c.Estimator = physics.Callaway
	}
	if c.Catalog == nil {
		c.Catalog = physics.DefaultCatalog()
	}
	def := model.DefaultAgentConfig()
	if c.Agent.MaxSteps <= 0 {
		c.Agent.MaxSteps = def.MaxSteps
	}
	if c.Agent.AdvisorTimeout <= 0 {
		c.Agent.AdvisorTimeout = def.AdvisorTimeout
	}
	return nil
}

// GraphBuilder handles the construction of the REASON/TOOL loop.
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[*model.AgentState, *model.AgentState]
}

// BuildGraph constructs and returns the compiled theorist graph:
//
//	START -> reason -(ShouldContinue)-> tool | END
//	tool -(AfterTool)-> reason | END
func BuildGraph(ctx context.Context, config *Config) (compose.Runnable[*model.AgentState, *model.AgentState], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}

	builder := &GraphBuilder{
		config: config,
		graph:  compose.NewGraph[*model.AgentState, *model.AgentState](),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.graph.AddEdge(compose.START, nodes.NodeReason); err != nil {
		return nil, fmt.Errorf("error adding start edge: %w", err)
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}
	return builder.compile(ctx)
}

// addNodes adds the REASON and TOOL lambdas
func (b *GraphBuilder) addNodes() error {
	reasoner := &nodes.Reasoner{
		Advisor:        b.config.Advisor,
		Catalog:        b.config.Catalog,
		MaxSteps:       b.config.Agent.MaxSteps,
		AdvisorTimeout: b.config.Agent.AdvisorTimeout,
		Metrics:        b.config.Metrics,
		Tracer:         b.config.Tracer,
	}
	executor := &nodes.ToolExecutor{
		Estimator: b.config.Estimator,
		Catalog:   b.config.Catalog,
		Metrics:   b.config.Metrics,
		Tracer:    b.config.Tracer,
	}

	if err := b.graph.AddLambdaNode(nodes.NodeReason, compose.InvokableLambda(reasoner.Reason), compose.WithNodeName(nodes.NodeReason)); err != nil {
		return fmt.Errorf("error adding reason node: %w", err)
	}
	if err := b.graph.AddLambdaNode(nodes.NodeTool, compose.InvokableLambda(executor.Execute), compose.WithNodeName(nodes.NodeTool)); err != nil {
		return fmt.Errorf("error adding tool node: %w", err)
	}
	return nil
}

// addBranches creates the conditional routing that closes the loop
func (b *GraphBuilder) addBranches() error {
	continueBranch := compose.NewGraphBranch(
		nodes.NewShouldContinueCondition(b.config.Agent.MaxSteps),
		map[string]bool{
			nodes.NodeTool: true,
			compose.END:    true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeReason, continueBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding should-continue branch")
		return fmt.Errorf("error adding should-continue branch: %w", err)
	}

	afterToolBranch := compose.NewGraphBranch(
		nodes.NewAfterToolCondition(),
		map[string]bool{
			nodes.NodeReason: true,
			compose.END:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeTool, afterToolBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding after-tool branch")
		return fmt.Errorf("error adding after-tool branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.AgentState, *model.AgentState], error) {
	// backstop only; the step limit in REASON ends the loop first
	maxRunSteps := 2*b.config.Agent.MaxSteps + 4

	runnable, err := b.graph.Compile(ctx,
		compose.WithMaxRunSteps(maxRunSteps),
		compose.WithGraphName("theorist"),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Int("max_steps", b.config.Agent.MaxSteps).Msg("Theorist graph compiled successfully")
	return runnable, nil
}

type graphRunner struct {
	runnable compose.Runnable[*model.AgentState, *model.AgentState]
	sessions *conversations.SessionManager
	metrics  *metrics.Metrics
}

// NewRunner builds the graph and wraps it with session handling and metrics.
func NewRunner(ctx context.Context, cfg Config) (Runner, error) {
	runnable, err := BuildGraph(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	return &graphRunner{runnable: runnable, sessions: cfg.Sessions, metrics: cfg.Metrics}, nil
}

// Run never reports loop failures as errors: they end up in the answer.
// Only an empty question is rejected.
func (r *graphRunner) Run(ctx context.Context, in model.QueryInput) (model.RunResult, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return model.RunResult{}, errx.NewKind(errx.KindInvalidRequest, nil, "question is required")
	}

	runID := uuid.NewString()
	log := logx.With("theorist").With().Str("run_id", runID).Str("session_id", in.SessionID).Logger()

	sessionCtx, err := r.sessions.LoadContext(ctx, in.SessionID)
	if err != nil {
		log.Warn().Err(err).Msg("could not load session context; continuing without it")
	}

	state := model.NewAgentState(runID, in.SessionID, question, sessionCtx)
	start := time.Now()

	out, err := r.runnable.Invoke(ctx, state, compose.WithCallbacks(observers.NewAllCallbacks()))
	if out == nil {
		out = state
	}
	if err != nil {
		log.Error().Err(err).Int("step", out.StepCount).Msg("theorist graph failed")
		out.RecordError(errx.KindInternal, err.Error())
		r.metrics.LoopError(string(errx.KindInternal))
		out.Finish(model.FailedMessage(err), model.OutcomeFailed)
	}
	if !out.Resolved() {
		out.Finish(model.FailedMessage(fmt.Errorf("loop ended without an answer")), model.OutcomeFailed)
	}

	r.metrics.ObserveRun(string(out.Outcome), time.Since(start))
	log.Info().
		Str("outcome", string(out.Outcome)).
		Int("steps", out.StepCount).
		Int("errors", len(out.ErrorLog)).
		Float64("total_cost_usd", out.TotalCostUSD).
		Dur("took", time.Since(start)).
		Msg("theorist run finished")

	if err := r.sessions.SaveRun(context.WithoutCancel(ctx), out); err != nil {
		log.Warn().Err(err).Msg("could not save session transcript")
	}
	return out.Result(), nil
}

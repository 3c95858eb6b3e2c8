package model

import (
	"time"

	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/nash-core-poc/server/internal/physics"
)

// AgentState is owned by exactly one loop run and threaded through the graph
// nodes as their input and output. It is never shared between runs.
type AgentState struct {
	RunID     string
	SessionID string

	Question string
	// Context is the transcript of earlier runs in the same session. It is
	// shown to the advisor but never scanned for observations.
	Context []string
	History []string

	PendingDecision string
	Answer          string
	ErrorLog        []ErrorRecord
	StepCount       int
	Outcome         Outcome

	// Accumulated advisor cost (USD) across REASON passes for this run
	TotalCostUSD float64
}

type ErrorRecord struct {
	Kind    errx.Kind `json:"kind"`
	Message string    `json:"message"`
	Step    int       `json:"step"`
	At      time.Time `json:"at"`
}

type Outcome string

const (
	OutcomeAnswered            Outcome = "answered"
	OutcomeStepLimit           Outcome = "step_limit"
	OutcomeDuplicateSimulation Outcome = "duplicate_simulation"
	OutcomeUnknownAction       Outcome = "unknown_action"
	OutcomeAdvisorUnavailable  Outcome = "advisor_unavailable"
	OutcomeCancelled           Outcome = "cancelled"
	OutcomeFailed              Outcome = "failed"
)

func NewAgentState(runID, sessionID, question string, context []string) *AgentState {
	return &AgentState{
		RunID:     runID,
		SessionID: sessionID,
		Question:  question,
		Context:   context,
		History:   []string{},
	}
}

// Resolved reports whether the run has a terminal answer.
func (s *AgentState) Resolved() bool {
	return s.Answer != ""
}

func (s *AgentState) Append(entry string) {
	s.History = append(s.History, entry)
}

func (s *AgentState) RecordError(kind errx.Kind, message string) {
	s.ErrorLog = append(s.ErrorLog, ErrorRecord{
		Kind:    kind,
		Message: message,
		Step:    s.StepCount,
		At:      time.Now().UTC(),
	})
}

// Finish sets the terminal answer and outcome.
func (s *AgentState) Finish(answer string, outcome Outcome) {
	s.Answer = answer
	s.Outcome = outcome
}

// QueryInput is the input of one question.
type QueryInput struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// RunResult is what the front-end receives after a run.
type RunResult struct {
	RunID        string          `json:"run_id"`
	SessionID    string          `json:"session_id,omitempty"`
	Question     string          `json:"question"`
	Answer       string          `json:"answer"`
	Outcome      Outcome         `json:"outcome"`
	Steps        int             `json:"steps"`
	History      []string        `json:"history"`
	ErrorLog     []ErrorRecord   `json:"error_log"`
	Observation  *physics.Result `json:"observation,omitempty"`
	TotalCostUSD float64         `json:"total_cost_usd"`
}

func (s *AgentState) Result() RunResult {
	res := RunResult{
		RunID:        s.RunID,
		SessionID:    s.SessionID,
		Question:     s.Question,
		Answer:       s.Answer,
		Outcome:      s.Outcome,
		Steps:        s.StepCount,
		History:      s.History,
		ErrorLog:     s.ErrorLog,
		TotalCostUSD: s.TotalCostUSD,
	}
	if res.ErrorLog == nil {
		res.ErrorLog = []ErrorRecord{}
	}
	if obs, ok := LatestObservation(s.History); ok {
		res.Observation = &obs
	}
	return res
}

package conversations

import (
	"context"

	"github.com/nash-core-poc/server/internal/agent/model"
)

// Session transcript tags for entries that are not part of a run's history.
const (
	QuestionPrefix = "User question: "
	AnswerPrefix   = "Final answer: "
)

type SessionManager struct {
	sessionRepo model.SessionRepository
	maxEntries  int
}

// NewSessionManager returns a manager; a nil repository makes every run stateless.
func NewSessionManager(sessionRepo model.SessionRepository, config model.AgentConfig) *SessionManager {
	return &SessionManager{
		sessionRepo: sessionRepo,
		maxEntries:  config.ContextMaxEntries,
	}
}

func (sm *SessionManager) enabled(sessionID string) bool {
	return sm != nil && sm.sessionRepo != nil && sessionID != ""
}

// LoadContext returns the tail of the session transcript to show the advisor.
func (sm *SessionManager) LoadContext(ctx context.Context, sessionID string) ([]string, error) {
	if !sm.enabled(sessionID) {
		return nil, nil
	}
	return sm.sessionRepo.Load(ctx, sessionID, sm.maxEntries)
}

// SaveRun appends the question, the run history and the final answer.
func (sm *SessionManager) SaveRun(ctx context.Context, s *model.AgentState) error {
	if !sm.enabled(s.SessionID) {
		return nil
	}
	entries := make([]string, 0, len(s.History)+2)
	entries = append(entries, QuestionPrefix+s.Question)
	entries = append(entries, s.History...)
	if s.Answer != "" {
		entries = append(entries, AnswerPrefix+s.Answer)
	}
	return sm.sessionRepo.Append(ctx, s.SessionID, entries...)
}

// Transcript returns the last limit entries of the stored session, or all of
// them when limit <= 0.
func (sm *SessionManager) Transcript(ctx context.Context, sessionID string, limit int) ([]string, error) {
	if !sm.enabled(sessionID) {
		return []string{}, nil
	}
	return sm.sessionRepo.Load(ctx, sessionID, limit)
}

// Len returns the number of stored entries for the session.
func (sm *SessionManager) Len(ctx context.Context, sessionID string) (int, error) {
	if !sm.enabled(sessionID) {
		return 0, nil
	}
	return sm.sessionRepo.Len(ctx, sessionID)
}

func (sm *SessionManager) Clear(ctx context.Context, sessionID string) error {
	if !sm.enabled(sessionID) {
		return nil
	}
	return sm.sessionRepo.Clear(ctx, sessionID)
}

package repo

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nash-core-poc/server/internal/agent/model"
)

const defaultMemorySessions = 1024

// MemorySessionRepository keeps transcripts in process memory. It backs the
// CLI and the HTTP server when no Redis URL is configured. At most maxSessions
// sessions are kept (least recently used go first) and a session expires ttl
// after its last append, like the Redis key TTL.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, []string]
}

// NewMemorySessionRepository returns an LRU-bounded store; ttl <= 0 disables expiry.
func NewMemorySessionRepository(maxSessions int, ttl time.Duration) *MemorySessionRepository {
	if maxSessions <= 0 {
		maxSessions = defaultMemorySessions
	}
	if ttl < 0 {
		ttl = 0
	}
	return &MemorySessionRepository{sessions: expirable.NewLRU[string, []string](maxSessions, nil, ttl)}
}

func (m *MemorySessionRepository) Append(_ context.Context, sessionID string, entries ...string) error {
	if len(entries) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, _ := m.sessions.Get(sessionID)
	next := make([]string, 0, len(rows)+len(entries))
	next = append(next, rows...)
	next = append(next, entries...)
	m.sessions.Add(sessionID, next)
	return nil
}

func (m *MemorySessionRepository) Load(_ context.Context, sessionID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, _ := m.sessions.Get(sessionID)
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *MemorySessionRepository) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Remove(sessionID)
	return nil
}

func (m *MemorySessionRepository) Len(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, _ := m.sessions.Get(sessionID)
	return len(rows), nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)

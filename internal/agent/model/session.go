package model

import "context"

// SessionRepository stores the transcripts of earlier runs in a chat session.
type SessionRepository interface {
	// Append adds transcript entries to the end of the session
	Append(ctx context.Context, sessionID string, entries ...string) error

	// Load returns at most the last limit entries; limit <= 0 returns everything
	Load(ctx context.Context, sessionID string, limit int) ([]string, error)

	Clear(ctx context.Context, sessionID string) error

	Len(ctx context.Context, sessionID string) (int, error)
}

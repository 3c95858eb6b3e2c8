// Package advisortest provides a scripted advisor for exercising the theorist loop
// without a model provider.
package advisortest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/nash-core-poc/server/internal/agent/graph/advisors"
	errx "github.com/nash-core-poc/server/internal/core/error"
)

// Scripted replays a fixed list of replies, one per call. Once the script is
// exhausted it repeats the last reply. An empty script behaves as an
// unavailable service.
type Scripted struct {
	mu      sync.Mutex
	replies []string
	calls   int
	seen    [][]*schema.Message
}

func NewScripted(replies ...string) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Decide(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.Unavailable(err, "scripted advisor cancelled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, messages)
	i := s.calls
	s.calls++
	if len(s.replies) == 0 {
		return nil, errx.Unavailable(fmt.Errorf("empty script"), "scripted advisor")
	}
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return schema.AssistantMessage(s.replies[i], nil), nil
}

func (s *Scripted) ModelName() string {
	return "scripted"
}

// Calls returns how many decisions were requested.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Prompts returns the message lists received so far.
func (s *Scripted) Prompts() [][]*schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]*schema.Message, len(s.seen))
	copy(out, s.seen)
	return out
}

var _ advisors.Advisor = (*Scripted)(nil)

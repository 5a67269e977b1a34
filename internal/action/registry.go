package action

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

// Registry hands out one runner per user, created on first use. The runner
// is bound to that user's notification transport.
type Registry struct {
	mu          sync.Mutex
	runners     map[uuid.UUID]*Runner
	notifierFor func(userID uuid.UUID) notify.Notifier
}

func NewRegistry(notifierFor func(userID uuid.UUID) notify.Notifier) *Registry {
	return &Registry{
		runners:     make(map[uuid.UUID]*Runner),
		notifierFor: notifierFor,
	}
}

func (g *Registry) For(userID uuid.UUID) *Runner {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.runners[userID]; ok {
		return r
	}

	r := NewRunner(g.notifierFor(userID))
	g.runners[userID] = r
	return r
}

// Remove resets and drops the user's runner, e.g. on logout.
func (g *Registry) Remove(userID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.runners[userID]; ok {
		r.Reset()
		delete(g.runners, userID)
	}
}

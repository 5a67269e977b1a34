package quiz

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

// Manager hands out one engine per user, created on first use.
type Manager struct {
	mu          sync.Mutex
	engines     map[uuid.UUID]*Engine
	notifierFor func(userID uuid.UUID) notify.Notifier
}

func NewManager(notifierFor func(userID uuid.UUID) notify.Notifier) *Manager {
	return &Manager{
		engines:     make(map[uuid.UUID]*Engine),
		notifierFor: notifierFor,
	}
}

func (m *Manager) For(userID uuid.UUID) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[userID]; ok {
		return e
	}

	e := NewEngine(m.notifierFor(userID))
	m.engines[userID] = e
	return e
}

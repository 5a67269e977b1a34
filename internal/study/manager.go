package study

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
	"github.com/rua702356-pixel/Web-Japanese/internal/store"
)

// Manager hands out one engine per user, created on first use.
type Manager struct {
	mu          sync.Mutex
	engines     map[uuid.UUID]*Engine
	source      CardSource
	store       store.Store
	notifierFor func(userID uuid.UUID) notify.Notifier
	progress    func(models.CardProgress)
	dailyGoal   int
}

func NewManager(
	source CardSource,
	st store.Store,
	notifierFor func(userID uuid.UUID) notify.Notifier,
	progress func(models.CardProgress),
	dailyGoal int,
) *Manager {
	return &Manager{
		engines:     make(map[uuid.UUID]*Engine),
		source:      source,
		store:       st,
		notifierFor: notifierFor,
		progress:    progress,
		dailyGoal:   dailyGoal,
	}
}

func (m *Manager) For(userID uuid.UUID) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[userID]; ok {
		return e
	}

	e := NewEngine(userID, m.source, m.store, m.notifierFor(userID),
		WithProgressSink(m.progress),
		WithDailyGoal(m.dailyGoal),
	)
	m.engines[userID] = e
	return e
}

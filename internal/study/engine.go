// Package study implements the flashcard study session state machine:
// snapshot-and-shuffle session start, reveal/answer two-phase scoring, manual
// navigation, and completion stats merged into the persistence store.
package study

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
	"github.com/rua702356-pixel/Web-Japanese/internal/store"
)

type Mode string

const (
	ModeStudy  Mode = "study"
	ModeTest   Mode = "test"
	ModeReview Mode = "review"
)

const defaultDailyGoal = 20

var (
	ErrEmptyDeck       = errors.New("no cards to study")
	ErrInvalidMode     = errors.New("invalid study mode")
	ErrNoActiveSession = errors.New("no active study session")
	ErrNotRevealed     = errors.New("card must be revealed before answering")
)

// CardSource supplies the read-only item pool a session starts from.
type CardSource interface {
	CardsByCategories(ctx context.Context, userID uuid.UUID, categories []string) ([]models.StudyCard, error)
}

// Session holds a shuffled snapshot of the filtered pool. Cards diverge from
// the pool during the session and are reconciled only through the progress
// save path.
type Session struct {
	ID               uuid.UUID          `json:"id"`
	Mode             Mode               `json:"mode"`
	Cards            []models.StudyCard `json:"cards"`
	CurrentIndex     int                `json:"current_index"`
	IsRevealed       bool               `json:"is_revealed"`
	CorrectAnswers   int                `json:"correct_answers"`
	IncorrectAnswers int                `json:"incorrect_answers"`
	StartTime        time.Time          `json:"start_time"`
}

// Engine drives one user's study sessions. Transitions are serialized by the
// engine mutex; the only side effects are the progress sink (fire-and-forget)
// and the stats merge at completion.
type Engine struct {
	mu        sync.Mutex
	userID    uuid.UUID
	source    CardSource
	store     store.Store
	notifier  notify.Notifier
	progress  func(models.CardProgress)
	session   *Session
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
	dailyGoal int
}

type EngineOption func(*Engine)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithRand seeds the shuffle with a fixed source, for tests.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) { e.shuffle = r.Shuffle }
}

// WithProgressSink sets the destination for per-card progress effects emitted
// by Answer. The sink must not block.
func WithProgressSink(fn func(models.CardProgress)) EngineOption {
	return func(e *Engine) { e.progress = fn }
}

func WithDailyGoal(goal int) EngineOption {
	return func(e *Engine) { e.dailyGoal = goal }
}

func NewEngine(userID uuid.UUID, source CardSource, st store.Store, notifier notify.Notifier, opts ...EngineOption) *Engine {
	e := &Engine{
		userID:    userID,
		source:    source,
		store:     st,
		notifier:  notifier,
		now:       time.Now,
		shuffle:   rand.Shuffle,
		dailyGoal: defaultDailyGoal,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func statsKey(userID uuid.UUID) string {
	return "stats:" + userID.String()
}

// Start filters the pool to the selected categories, snapshots and shuffles
// the survivors, and opens a fresh session. An already-active session is
// discarded. An empty filtered deck leaves the engine idle and returns
// ErrEmptyDeck.
func (e *Engine) Start(ctx context.Context, mode Mode, categories []string) (*Session, error) {
	switch mode {
	case ModeStudy, ModeTest, ModeReview:
	default:
		return nil, ErrInvalidMode
	}

	cards, err := e.source.CardsByCategories(ctx, e.userID, categories)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	// Snapshot: the session owns its copies; the pool is never mutated.
	deck := make([]models.StudyCard, len(cards))
	copy(deck, cards)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Fisher–Yates: every permutation equally likely.
	e.shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	e.session = &Session{
		ID:        uuid.New(),
		Mode:      mode,
		Cards:     deck,
		StartTime: e.now(),
	}

	return e.snapshotLocked(), nil
}

// Reveal shows the back of the current card. Idempotent.
func (e *Engine) Reveal() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoActiveSession
	}
	e.session.IsRevealed = true
	return nil
}

// Answer records a scored response for the current card. Valid only after
// Reveal; an unrevealed answer is rejected with no state change. After
// recording, the engine advances, completing the session on the last card.
// The returned flag reports completion.
func (e *Engine) Answer(ctx context.Context, correct bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return false, ErrNoActiveSession
	}
	if !s.IsRevealed {
		return false, ErrNotRevealed
	}

	if correct {
		s.CorrectAnswers++
	} else {
		s.IncorrectAnswers++
	}

	now := e.now()
	card := &s.Cards[s.CurrentIndex]
	card.ReviewCount++
	if correct {
		card.CorrectCount++
	}
	card.LastReviewedAt = &now

	if e.progress != nil {
		e.progress(models.CardProgress{
			UserID:         e.userID,
			CardID:         card.ID,
			ReviewCount:    card.ReviewCount,
			CorrectCount:   card.CorrectCount,
			LastReviewedAt: now,
		})
	}

	if s.CurrentIndex == len(s.Cards)-1 {
		e.completeLocked(ctx)
		return true, nil
	}

	s.CurrentIndex++
	s.IsRevealed = false
	return false, nil
}

// Next moves forward without scoring. Clamped at the last card; moving always
// hides the answer again.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.CurrentIndex < len(s.Cards)-1 {
		s.CurrentIndex++
	}
	s.IsRevealed = false
	return nil
}

// Previous moves backward without scoring. Clamped at zero.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
	s.IsRevealed = false
	return nil
}

// Reset discards the session unconditionally. Stats are untouched; this is
// the only way to abandon a session without affecting them.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
}

// Session returns a copy of the active session, or nil when idle.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// CurrentCard returns the card the session is positioned on.
func (e *Engine) CurrentCard() (models.StudyCard, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return models.StudyCard{}, false
	}
	return e.session.Cards[e.session.CurrentIndex], true
}

// Stats reads the persisted aggregate, falling back to defaults when the key
// has never been written.
func (e *Engine) Stats(ctx context.Context) (models.StudyStats, error) {
	stats := models.StudyStats{TodayGoal: e.dailyGoal}
	if _, err := e.store.Get(ctx, statsKey(e.userID), &stats); err != nil {
		return models.StudyStats{}, err
	}
	if stats.TodayGoal == 0 {
		stats.TodayGoal = e.dailyGoal
	}
	return stats, nil
}

func (e *Engine) snapshotLocked() *Session {
	if e.session == nil {
		return nil
	}
	cp := *e.session
	cp.Cards = make([]models.StudyCard, len(e.session.Cards))
	copy(cp.Cards, e.session.Cards)
	return &cp
}

// completeLocked merges the session outcome into the persisted stats,
// reports a summary, and returns the engine to idle. Called with the mutex
// held, after the last answer.
func (e *Engine) completeLocked(ctx context.Context) {
	s := e.session
	now := e.now()

	answered := s.CorrectAnswers + s.IncorrectAnswers
	accuracy := 0
	if answered > 0 {
		accuracy = int(math.Round(float64(s.CorrectAnswers) / float64(answered) * 100))
	}

	stats, err := e.Stats(ctx)
	if err != nil {
		stats = models.StudyStats{TodayGoal: e.dailyGoal}
	}

	rollDay(&stats, now)
	stats.TodayStudied += len(s.Cards)
	if answered > 0 {
		total := stats.AverageAccuracy*stats.SessionsCompleted + accuracy
		stats.SessionsCompleted++
		stats.AverageAccuracy = int(math.Round(float64(total) / float64(stats.SessionsCompleted)))
	}
	stats.LastStudiedAt = &now

	// Whole-blob replace on save keeps the aggregate consistent.
	if err := e.store.Set(ctx, statsKey(e.userID), stats); err != nil {
		e.notifier.Notify(notify.KindWarning, "Stats not saved", err.Error())
	}

	e.notifier.Notify(notify.KindSuccess, "Session complete!",
		fmt.Sprintf("%d/%d cards correct (%d%%)", s.CorrectAnswers, len(s.Cards), accuracy))

	e.session = nil
}

// rollDay resets the daily counter and advances the streak when the calendar
// day has changed since the last completed session.
func rollDay(stats *models.StudyStats, now time.Time) {
	if stats.LastStudiedAt == nil {
		stats.WeeklyStreak = 1
		return
	}

	last := stats.LastStudiedAt
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	if ly == ny && lm == nm && ld == nd {
		return
	}

	stats.TodayStudied = 0
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ly == yy && lm == ym && ld == yd {
		stats.WeeklyStreak++
	} else {
		stats.WeeklyStreak = 1
	}
}

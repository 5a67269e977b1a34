// Package quiz implements the timed assessment state machine: sequential
// single-answer traversal under one whole-session countdown, with pass/fail
// evaluation against the quiz's passing threshold.
package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

const (
	// DefaultTimeLimit applies when a quiz does not set its own limit.
	DefaultTimeLimit = 30 * time.Minute

	// DefaultPassingScore applies when a quiz does not set a threshold.
	DefaultPassingScore = 70

	// FeedbackDelay is how long the learner sees correct/incorrect feedback
	// before the session advances.
	FeedbackDelay = 1500 * time.Millisecond
)

var (
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrNoActiveSession  = errors.New("no active quiz session")
	ErrSessionCompleted = errors.New("quiz session already completed")
	ErrAnswerLocked     = errors.New("answer already locked for this question")
	ErrInvalidAnswer    = errors.New("answer index out of range")
)

// Session is one run through a quiz. Terminal once IsCompleted; after that it
// is read-only and only feeds the result view.
type Session struct {
	Quiz                 models.Quiz `json:"quiz"`
	CurrentQuestionIndex int         `json:"current_question_index"`
	TimeLeftSeconds      int         `json:"time_left_seconds"`
	SelectedAnswer       *int        `json:"selected_answer,omitempty"`
	Score                int         `json:"score"`
	IsActive             bool        `json:"is_active"`
	IsCompleted          bool        `json:"is_completed"`
	StartedAt            time.Time   `json:"started_at"`
}

type Result struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	TimedOut   bool    `json:"timed_out"`
}

// Engine drives one user's quiz sessions. It owns the countdown: Tick is a
// pure transition, and the engine's internal ticker (when enabled) is the
// scheduler that calls it, cancelled whenever the session ends.
type Engine struct {
	mu       sync.Mutex
	notifier notify.Notifier
	session  *Session
	timedOut bool

	tickInterval time.Duration
	advanceDelay time.Duration
	now          func() time.Time

	stopTimer    chan struct{}
	advanceTimer *time.Timer
}

type EngineOption func(*Engine)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithoutTimers disables the internal ticker and the delayed auto-advance so
// tests drive Tick and Advance directly.
func WithoutTimers() EngineOption {
	return func(e *Engine) {
		e.tickInterval = 0
		e.advanceDelay = 0
	}
}

func NewEngine(notifier notify.Notifier, opts ...EngineOption) *Engine {
	e := &Engine{
		notifier:     notifier,
		tickInterval: time.Second,
		advanceDelay: FeedbackDelay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start opens a session over the quiz and starts the countdown. Any previous
// session, active or completed, is discarded.
func (e *Engine) Start(q models.Quiz) (*Session, error) {
	if len(q.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	limit := q.TimeLimitSeconds
	if limit <= 0 {
		limit = int(DefaultTimeLimit.Seconds())
	}

	e.mu.Lock()
	e.stopTimersLocked()
	e.session = &Session{
		Quiz:            q,
		TimeLeftSeconds: limit,
		IsActive:        true,
		StartedAt:       e.now(),
	}
	e.timedOut = false

	if e.tickInterval > 0 {
		stop := make(chan struct{})
		e.stopTimer = stop
		go e.countdown(stop)
	}
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.notifier.Notify(notify.KindSuccess, "Quiz started", q.Title)
	return snapshot, nil
}

func (e *Engine) countdown(stop chan struct{}) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick decrements the session clock by one second. Reaching zero is a
// terminal clock event: the session completes even with questions left, so it
// never runs past its allotted time. The timer mutates only the clock; it
// never touches question or score state.
func (e *Engine) Tick() {
	e.mu.Lock()

	s := e.session
	if s == nil || !s.IsActive || s.TimeLeftSeconds <= 0 {
		e.mu.Unlock()
		return
	}

	s.TimeLeftSeconds--
	if s.TimeLeftSeconds > 0 {
		e.mu.Unlock()
		return
	}

	e.timedOut = true
	e.finishLocked()
	e.mu.Unlock()

	e.notifier.Notify(notify.KindWarning, "Time is up!", "The quiz was submitted automatically")
}

// SelectAnswer locks in an answer for the current question. First call wins;
// repeats before the advance are rejected. Feedback is reported immediately;
// the advance itself happens after the feedback delay (or via Advance when
// timers are disabled).
func (e *Engine) SelectAnswer(index int) error {
	e.mu.Lock()

	s := e.session
	if s == nil {
		e.mu.Unlock()
		return ErrNoActiveSession
	}
	if s.IsCompleted {
		e.mu.Unlock()
		return ErrSessionCompleted
	}
	if s.SelectedAnswer != nil {
		e.mu.Unlock()
		return ErrAnswerLocked
	}

	q := s.Quiz.Questions[s.CurrentQuestionIndex]
	if index < 0 || index >= len(q.Options) {
		e.mu.Unlock()
		return ErrInvalidAnswer
	}

	s.SelectedAnswer = &index
	correct := q.CorrectIndex == index
	if correct {
		s.Score++
	}

	if e.advanceDelay > 0 {
		e.advanceTimer = time.AfterFunc(e.advanceDelay, e.Advance)
	}
	e.mu.Unlock()

	if correct {
		e.notifier.Notify(notify.KindSuccess, "Correct!", q.Explanation)
	} else {
		e.notifier.Notify(notify.KindError, "Incorrect", q.Explanation)
	}
	return nil
}

// Advance moves past an answered question: next question with the selection
// cleared, or completion after the last one. A stale advance (after reset,
// expiry, or an unanswered question) is a no-op.
func (e *Engine) Advance() {
	e.mu.Lock()

	s := e.session
	if s == nil || s.IsCompleted || s.SelectedAnswer == nil {
		e.mu.Unlock()
		return
	}

	if s.CurrentQuestionIndex < len(s.Quiz.Questions)-1 {
		s.CurrentQuestionIndex++
		s.SelectedAnswer = nil
		e.mu.Unlock()
		return
	}

	e.finishLocked()
	result := e.resultLocked()
	e.mu.Unlock()

	e.notifier.Notify(notify.KindInfo, "Quiz finished",
		fmt.Sprintf("%d/%d correct (%.0f%%)", result.Score, result.Total, result.Percentage))
}

// Result evaluates the session against the quiz's passing threshold.
func (e *Engine) Result() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return Result{}, ErrNoActiveSession
	}
	return e.resultLocked(), nil
}

// Session returns a copy of the current session, or nil when none exists.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Reset cancels the countdown and discards the session.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimersLocked()
	e.session = nil
	e.timedOut = false
}

// finishLocked makes the session terminal and releases the timers.
func (e *Engine) finishLocked() {
	e.session.IsActive = false
	e.session.IsCompleted = true
	e.stopTimersLocked()
}

func (e *Engine) stopTimersLocked() {
	if e.stopTimer != nil {
		close(e.stopTimer)
		e.stopTimer = nil
	}
	if e.advanceTimer != nil {
		e.advanceTimer.Stop()
		e.advanceTimer = nil
	}
}

func (e *Engine) resultLocked() Result {
	s := e.session
	total := len(s.Quiz.Questions)

	percentage := float64(s.Score) / float64(total) * 100

	threshold := s.Quiz.PassingScorePercent
	if threshold <= 0 {
		threshold = DefaultPassingScore
	}

	return Result{
		Score:      s.Score,
		Total:      total,
		Percentage: percentage,
		Passed:     percentage >= float64(threshold),
		TimedOut:   e.timedOut,
	}
}

func (e *Engine) snapshotLocked() *Session {
	if e.session == nil {
		return nil
	}
	cp := *e.session
	if e.session.SelectedAnswer != nil {
		v := *e.session.SelectedAnswer
		cp.SelectedAnswer = &v
	}
	return &cp
}

package quiz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

func hiraganaQuiz() models.Quiz {
	return models.Quiz{
		ID:                  uuid.New(),
		Title:               "Hiragana Basics",
		Level:               "N5",
		TimeLimitSeconds:    600,
		PassingScorePercent: 70,
		Questions: []models.Question{
			{
				ID:           "h1",
				Type:         models.QuestionTypeMultipleChoice,
				Prompt:       "How is あ pronounced?",
				Options:      []string{"/a/", "/i/", "/u/", "/e/"},
				CorrectIndex: 0,
				Explanation:  "あ is pronounced /a/",
				Points:       20,
			},
			{
				ID:           "h2",
				Type:         models.QuestionTypeMultipleChoice,
				Prompt:       "What does いぬ mean?",
				Options:      []string{"cat", "dog", "bird", "fish"},
				CorrectIndex: 1,
				Explanation:  "いぬ means dog",
				Points:       20,
			},
		},
	}
}

func newTestEngine() (*Engine, *notify.Recorder) {
	rec := notify.NewRecorder()
	return NewEngine(rec, WithoutTimers()), rec
}

func TestStart(t *testing.T) {
	e, rec := newTestEngine()

	s, err := e.Start(hiraganaQuiz())
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if s.CurrentQuestionIndex != 0 || s.Score != 0 {
		t.Errorf("Fresh session not zeroed: %+v", s)
	}
	if s.TimeLeftSeconds != 600 {
		t.Errorf("Expected time limit 600, got %d", s.TimeLeftSeconds)
	}
	if !s.IsActive || s.IsCompleted {
		t.Errorf("Expected active, not completed: %+v", s)
	}
	if rec.CountKind(notify.KindSuccess) != 1 {
		t.Errorf("Expected start toast, got %v", rec.Toasts())
	}
}

func TestStart_DefaultTimeLimit(t *testing.T) {
	e, _ := newTestEngine()

	q := hiraganaQuiz()
	q.TimeLimitSeconds = 0
	s, err := e.Start(q)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if s.TimeLeftSeconds != 1800 {
		t.Errorf("Expected default 1800s, got %d", s.TimeLeftSeconds)
	}
}

func TestStart_NoQuestions(t *testing.T) {
	e, _ := newTestEngine()

	q := hiraganaQuiz()
	q.Questions = nil
	if _, err := e.Start(q); err != ErrNoQuestions {
		t.Fatalf("Expected ErrNoQuestions, got %v", err)
	}
	if e.Session() != nil {
		t.Error("Expected no session")
	}
}

func TestSelectAnswer_ScoresAndNotifies(t *testing.T) {
	e, rec := newTestEngine()
	e.Start(hiraganaQuiz())
	rec.Reset()

	if err := e.SelectAnswer(0); err != nil {
		t.Fatalf("SelectAnswer returned error: %v", err)
	}

	s := e.Session()
	if s.Score != 1 {
		t.Errorf("Expected score 1 for correct answer, got %d", s.Score)
	}
	if s.SelectedAnswer == nil || *s.SelectedAnswer != 0 {
		t.Errorf("Expected selected answer 0, got %v", s.SelectedAnswer)
	}

	toasts := rec.Toasts()
	if len(toasts) != 1 || toasts[0].Kind != notify.KindSuccess {
		t.Fatalf("Expected immediate correct toast, got %v", toasts)
	}
	if toasts[0].Description != "あ is pronounced /a/" {
		t.Errorf("Expected explanation as description, got %q", toasts[0].Description)
	}
}

func TestSelectAnswer_LockedAfterFirstCall(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.SelectAnswer(1) // incorrect
	if err := e.SelectAnswer(0); err != ErrAnswerLocked {
		t.Fatalf("Expected ErrAnswerLocked, got %v", err)
	}

	// A second selection before advance must not affect the score.
	if s := e.Session(); s.Score != 0 {
		t.Errorf("Expected score unchanged at 0, got %d", s.Score)
	}
}

func TestSelectAnswer_OutOfRange(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	for _, idx := range []int{-1, 4, 99} {
		if err := e.SelectAnswer(idx); err != ErrInvalidAnswer {
			t.Errorf("index %d: expected ErrInvalidAnswer, got %v", idx, err)
		}
	}
	if s := e.Session(); s.SelectedAnswer != nil {
		t.Error("Expected no answer locked after rejected selections")
	}
}

func TestAdvance_MovesAndClearsSelection(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.SelectAnswer(0)
	e.Advance()

	s := e.Session()
	if s.CurrentQuestionIndex != 1 {
		t.Errorf("Expected index 1, got %d", s.CurrentQuestionIndex)
	}
	if s.SelectedAnswer != nil {
		t.Error("Expected selection cleared after advance")
	}
	if s.IsCompleted {
		t.Error("Expected session still running")
	}
}

func TestAdvance_WithoutAnswerIsNoOp(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.Advance()
	if s := e.Session(); s.CurrentQuestionIndex != 0 {
		t.Errorf("Expected unanswered advance to be a no-op, got index %d", s.CurrentQuestionIndex)
	}
}

func TestCompletion_PassFail(t *testing.T) {
	// 2 questions, passing score 70: one correct of two is 50% and fails.
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.SelectAnswer(0) // correct
	e.Advance()
	e.SelectAnswer(0) // incorrect (correct is 1)
	e.Advance()

	s := e.Session()
	if !s.IsCompleted || s.IsActive {
		t.Fatalf("Expected terminal session, got %+v", s)
	}

	result, err := e.Result()
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("Expected score 1, got %d", result.Score)
	}
	if result.Percentage != 50 {
		t.Errorf("Expected 50%%, got %v", result.Percentage)
	}
	if result.Passed {
		t.Error("Expected failed result at 50%% against threshold 70")
	}
}

func TestCompletion_AllCorrectPasses(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.SelectAnswer(0)
	e.Advance()
	e.SelectAnswer(1)
	e.Advance()

	result, _ := e.Result()
	if !result.Passed || result.Percentage != 100 {
		t.Errorf("Expected 100%% pass, got %+v", result)
	}
}

func TestCompletedSession_RejectsAnswers(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.SelectAnswer(0)
	e.Advance()
	e.SelectAnswer(1)
	e.Advance()

	if err := e.SelectAnswer(0); err != ErrSessionCompleted {
		t.Fatalf("Expected ErrSessionCompleted, got %v", err)
	}
}

func TestTick_CountsDown(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())

	e.Tick()
	e.Tick()
	e.Tick()

	if s := e.Session(); s.TimeLeftSeconds != 597 {
		t.Errorf("Expected 597s left, got %d", s.TimeLeftSeconds)
	}
}

func TestTick_ExpiryForcesCompletion(t *testing.T) {
	e, rec := newTestEngine()

	q := hiraganaQuiz()
	q.TimeLimitSeconds = 2
	e.Start(q)
	e.SelectAnswer(0) // one correct answer in, second question never reached
	e.Advance()
	rec.Reset()

	e.Tick()
	e.Tick()

	s := e.Session()
	if !s.IsCompleted || s.IsActive {
		t.Fatalf("Expected forced completion at expiry, got %+v", s)
	}
	if s.TimeLeftSeconds != 0 {
		t.Errorf("Expected clock at 0, got %d", s.TimeLeftSeconds)
	}

	// Further ticks must not drive the clock negative or re-fire.
	e.Tick()
	if s := e.Session(); s.TimeLeftSeconds != 0 {
		t.Errorf("Expected clock pinned at 0, got %d", s.TimeLeftSeconds)
	}

	if rec.CountKind(notify.KindWarning) != 1 {
		t.Errorf("Expected one time-up toast, got %v", rec.Toasts())
	}

	result, _ := e.Result()
	if !result.TimedOut {
		t.Error("Expected result flagged as timed out")
	}
	// Unanswered questions score zero: 1/2 = 50%, fails at 70.
	if result.Score != 1 || result.Passed {
		t.Errorf("Expected 1/2 fail, got %+v", result)
	}
}

func TestTick_AnswerRaceIsGuarded(t *testing.T) {
	// Timer expiry between lock and advance: the locked answer keeps its
	// point, the tick only ends the session.
	e, _ := newTestEngine()

	q := hiraganaQuiz()
	q.TimeLimitSeconds = 1
	e.Start(q)

	e.SelectAnswer(0)
	e.Tick()

	result, _ := e.Result()
	if result.Score != 1 {
		t.Errorf("Expected locked answer to keep its point, got %d", result.Score)
	}
	if !e.Session().IsCompleted {
		t.Error("Expected session completed by expiry")
	}

	// The pending advance is now stale.
	e.Advance()
	if s := e.Session(); s.CurrentQuestionIndex != 0 {
		t.Errorf("Expected stale advance ignored, got index %d", s.CurrentQuestionIndex)
	}
}

func TestReset_DiscardsSession(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())
	e.SelectAnswer(0)

	e.Reset()
	if e.Session() != nil {
		t.Error("Expected no session after reset")
	}
	if _, err := e.Result(); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession from Result, got %v", err)
	}
	if err := e.SelectAnswer(0); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession from SelectAnswer, got %v", err)
	}
}

func TestRestart_ReplacesCompletedSession(t *testing.T) {
	e, _ := newTestEngine()
	e.Start(hiraganaQuiz())
	e.SelectAnswer(0)
	e.Advance()
	e.SelectAnswer(1)
	e.Advance()

	s, err := e.Start(hiraganaQuiz())
	if err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}
	if s.Score != 0 || s.IsCompleted {
		t.Errorf("Expected fresh session, got %+v", s)
	}

	result, _ := e.Result()
	if result.TimedOut {
		t.Error("Expected timed-out flag cleared on restart")
	}
}

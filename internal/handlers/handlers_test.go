package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/action"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
	"github.com/rua702356-pixel/Web-Japanese/internal/quiz"
	"github.com/rua702356-pixel/Web-Japanese/internal/store"
	"github.com/rua702356-pixel/Web-Japanese/internal/study"
)

type fakeSource struct {
	cards []models.StudyCard
}

func (f *fakeSource) CardsByCategories(_ context.Context, _ uuid.UUID, categories []string) ([]models.StudyCard, error) {
	var out []models.StudyCard
	for _, c := range f.cards {
		for _, cat := range categories {
			if c.Category == cat {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func greetingCards() []models.StudyCard {
	return []models.StudyCard{
		{
			ID:       uuid.New(),
			Front:    models.CardFace{Primary: "こんにちは", Secondary: "konnichiwa"},
			Back:     models.CardFace{Primary: "Xin chào", Secondary: "xin chao"},
			Category: "greeting",
		},
		{
			ID:       uuid.New(),
			Front:    models.CardFace{Primary: "ありがとう", Secondary: "arigatou"},
			Back:     models.CardFace{Primary: "Cảm ơn", Secondary: "cam on"},
			Category: "greeting",
		},
	}
}

func newStudyHandler(cards []models.StudyCard) (*StudyHandler, *notify.Recorder) {
	rec := &notify.Recorder{}
	notifierFor := func(uuid.UUID) notify.Notifier { return rec }

	sessions := study.NewManager(&fakeSource{cards: cards}, store.NewMemoryStore(), notifierFor, nil, 20)
	actions := action.NewRegistry(notifierFor)

	return NewStudyHandler(sessions, actions, nil), rec
}

func authedRequest(method, target string, body interface{}, userID uuid.UUID) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

// ─── Study Handler Tests ───

func TestStudyStartHandler(t *testing.T) {
	h, _ := newStudyHandler(greetingCards())
	userID := uuid.New()

	req := authedRequest(http.MethodPost, "/api/v1/study/start",
		map[string]interface{}{"mode": "study", "categories": []string{"greeting"}}, userID)
	rr := httptest.NewRecorder()

	h.Start(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var session study.Session
	if err := json.NewDecoder(rr.Body).Decode(&session); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(session.Cards) != 2 {
		t.Errorf("Expected 2 cards in session, got %d", len(session.Cards))
	}
	if session.CurrentIndex != 0 {
		t.Errorf("Expected current index 0, got %d", session.CurrentIndex)
	}
}

func TestStudyStartHandler_EmptyDeck(t *testing.T) {
	h, rec := newStudyHandler(nil)
	userID := uuid.New()

	req := authedRequest(http.MethodPost, "/api/v1/study/start",
		map[string]interface{}{"mode": "study", "categories": []string{"greeting"}}, userID)
	rr := httptest.NewRecorder()

	h.Start(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected error code VALIDATION_ERROR, got %q", resp.Error.Code)
	}

	if got := rec.CountKind(notify.KindError); got != 1 {
		t.Errorf("Expected 1 error toast, got %d", got)
	}
}

func TestStudyStartHandler_DuplicateSuppressed(t *testing.T) {
	h, _ := newStudyHandler(greetingCards())
	userID := uuid.New()

	body := map[string]interface{}{"mode": "study", "categories": []string{"greeting"}}

	first := httptest.NewRecorder()
	h.Start(first, authedRequest(http.MethodPost, "/api/v1/study/start", body, userID))
	if first.Code != http.StatusCreated {
		t.Fatalf("Expected first start to return 201, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.Start(second, authedRequest(http.MethodPost, "/api/v1/study/start", body, userID))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected rapid duplicate start to return 429, got %d", second.Code)
	}
}

func TestStudyAnswerFlow(t *testing.T) {
	h, _ := newStudyHandler(greetingCards())
	userID := uuid.New()

	start := httptest.NewRecorder()
	h.Start(start, authedRequest(http.MethodPost, "/api/v1/study/start",
		map[string]interface{}{"mode": "study", "categories": []string{"greeting"}}, userID))
	if start.Code != http.StatusCreated {
		t.Fatalf("Failed to start session: %d", start.Code)
	}

	// Answering before reveal is rejected
	early := httptest.NewRecorder()
	h.Answer(early, authedRequest(http.MethodPost, "/api/v1/study/answer",
		map[string]bool{"correct": true}, userID))
	if early.Code != http.StatusConflict {
		t.Errorf("Expected 409 for answer before reveal, got %d", early.Code)
	}

	reveal := httptest.NewRecorder()
	h.Reveal(reveal, authedRequest(http.MethodPost, "/api/v1/study/reveal", nil, userID))
	if reveal.Code != http.StatusOK {
		t.Fatalf("Failed to reveal: %d", reveal.Code)
	}

	answer := httptest.NewRecorder()
	h.Answer(answer, authedRequest(http.MethodPost, "/api/v1/study/answer",
		map[string]bool{"correct": true}, userID))
	if answer.Code != http.StatusOK {
		t.Fatalf("Failed to answer: %d", answer.Code)
	}

	var resp struct {
		Completed bool           `json:"completed"`
		Session   *study.Session `json:"session"`
	}
	if err := json.NewDecoder(answer.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode answer response: %v", err)
	}
	if resp.Completed {
		t.Error("Expected session to continue after first of two cards")
	}
	if resp.Session.CurrentIndex != 1 {
		t.Errorf("Expected advance to index 1, got %d", resp.Session.CurrentIndex)
	}
	if resp.Session.CorrectAnswers != 1 {
		t.Errorf("Expected 1 correct answer, got %d", resp.Session.CorrectAnswers)
	}
}

func TestStudySessionHandler_NoSession(t *testing.T) {
	h, _ := newStudyHandler(greetingCards())

	rr := httptest.NewRecorder()
	h.Session(rr, authedRequest(http.MethodGet, "/api/v1/study/session", nil, uuid.New()))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without an active session, got %d", rr.Code)
	}
}

// ─── Quiz Handler Tests ───

func newQuizHandler() (*QuizHandler, *quiz.Manager) {
	rec := &notify.Recorder{}
	notifierFor := func(uuid.UUID) notify.Notifier { return rec }

	sessions := quiz.NewManager(notifierFor)
	actions := action.NewRegistry(notifierFor)

	return NewQuizHandler(nil, sessions, actions), sessions
}

func hiraganaQuiz() models.Quiz {
	return models.Quiz{
		ID:                  uuid.New(),
		Title:               "Hiragana basics",
		TimeLimitSeconds:    600,
		PassingScorePercent: 70,
		Questions: []models.Question{
			{ID: "h1", Type: models.QuestionTypeMultipleChoice, Prompt: "「あ」はどれ?", Options: []string{"a", "i", "u"}, CorrectIndex: 0},
			{ID: "h2", Type: models.QuestionTypeMultipleChoice, Prompt: "「き」はどれ?", Options: []string{"ka", "ki", "ku"}, CorrectIndex: 1},
		},
	}
}

func TestQuizAnswerHandler(t *testing.T) {
	h, sessions := newQuizHandler()
	userID := uuid.New()

	engine := sessions.For(userID)
	if _, err := engine.Start(hiraganaQuiz()); err != nil {
		t.Fatalf("Failed to start quiz: %v", err)
	}
	defer engine.Reset()

	rr := httptest.NewRecorder()
	h.Answer(rr, authedRequest(http.MethodPost, "/api/v1/quiz-session/answer",
		map[string]int{"answer_index": 0}, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var session quiz.Session
	if err := json.NewDecoder(rr.Body).Decode(&session); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if session.Score != 1 {
		t.Errorf("Expected score 1 after correct answer, got %d", session.Score)
	}

	// Second answer to the same question is locked
	locked := httptest.NewRecorder()
	h.Answer(locked, authedRequest(http.MethodPost, "/api/v1/quiz-session/answer",
		map[string]int{"answer_index": 1}, userID))
	if locked.Code != http.StatusConflict {
		t.Errorf("Expected 409 for locked answer, got %d", locked.Code)
	}
}

func TestQuizResultHandler_NoSession(t *testing.T) {
	h, _ := newQuizHandler()

	rr := httptest.NewRecorder()
	h.Result(rr, authedRequest(http.MethodGet, "/api/v1/quiz-session/result", nil, uuid.New()))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without an active session, got %d", rr.Code)
	}
}

// ─── JSON Envelope Tests ───

func TestErrorRespEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Quiz not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request_id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "ok" {
		t.Errorf("Expected message 'ok', got %q", result["message"])
	}
}

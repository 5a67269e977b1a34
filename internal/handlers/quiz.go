package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rua702356-pixel/Web-Japanese/internal/action"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/quiz"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
)

type QuizHandler struct {
	quizRepo *repository.QuizRepo
	sessions *quiz.Manager
	actions  *action.Registry
}

func NewQuizHandler(quizRepo *repository.QuizRepo, sessions *quiz.Manager, actions *action.Registry) *QuizHandler {
	return &QuizHandler{quizRepo: quizRepo, sessions: sessions, actions: actions}
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quizzes", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	q, err := h.quizRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz", r))
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Start fetches the quiz and hands it to the user's engine through the
// action runner. Double-clicking "start" inside the debounce window is a
// single start.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	q, err := h.quizRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz", r))
		return
	}

	engine := h.sessions.For(userID)
	runner := h.actions.For(userID)

	var opErr error
	result := runner.Execute(r.Context(), "start-quiz", func(ctx context.Context) (interface{}, error) {
		session, err := engine.Start(*q)
		opErr = err
		return session, err
	}, action.ShowSuccess(false))

	if result == nil {
		if opErr != nil {
			handleQuizError(w, r, opErr)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, errorResp("DUPLICATE_ACTION", "A quiz start is already in flight", r))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	var req struct {
		AnswerIndex int `json:"answer_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := engine.SelectAnswer(req.AnswerIndex); err != nil {
		handleQuizError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.Session())
}

func (h *QuizHandler) Session(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	session := engine.Session()
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active quiz session", r))
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *QuizHandler) Result(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	result, err := engine.Result()
	if err != nil {
		handleQuizError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))
	engine.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz session discarded"})
}

func handleQuizError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions), errors.Is(err, quiz.ErrInvalidAnswer):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case errors.Is(err, quiz.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", err.Error(), r))
	case errors.Is(err, quiz.ErrAnswerLocked), errors.Is(err, quiz.ErrSessionCompleted):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

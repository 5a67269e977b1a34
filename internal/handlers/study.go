package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rua702356-pixel/Web-Japanese/internal/action"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
	"github.com/rua702356-pixel/Web-Japanese/internal/study"
)

type StudyHandler struct {
	sessions *study.Manager
	actions  *action.Registry
	cardRepo *repository.CardRepo
}

func NewStudyHandler(sessions *study.Manager, actions *action.Registry, cardRepo *repository.CardRepo) *StudyHandler {
	return &StudyHandler{sessions: sessions, actions: actions, cardRepo: cardRepo}
}

// Start goes through the per-user action runner: duplicate rapid starts are
// dropped and failures surface as error toasts. The engine itself posts the
// completion toast, so the runner's success toast is off.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Mode       string   `json:"mode"`
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	engine := h.sessions.For(userID)
	runner := h.actions.For(userID)

	var opErr error
	result := runner.Execute(r.Context(), "start-study-session", func(ctx context.Context) (interface{}, error) {
		session, err := engine.Start(ctx, study.Mode(req.Mode), req.Categories)
		opErr = err
		return session, err
	}, action.ShowSuccess(false))

	if result == nil {
		if opErr != nil {
			handleStudyError(w, r, opErr)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, errorResp("DUPLICATE_ACTION", "A session start is already in flight", r))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	if err := engine.Reveal(); err != nil {
		handleStudyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.Session())
}

func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	var req struct {
		Correct bool `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	completed, err := engine.Answer(r.Context(), req.Correct)
	if err != nil {
		handleStudyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"completed": completed,
		"session":   engine.Session(),
	})
}

func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	if err := engine.Next(); err != nil {
		handleStudyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.Session())
}

func (h *StudyHandler) Previous(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	if err := engine.Previous(); err != nil {
		handleStudyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.Session())
}

func (h *StudyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))
	engine.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session discarded"})
}

func (h *StudyHandler) Session(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.For(middleware.GetUserID(r.Context()))

	session := engine.Session()
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active study session", r))
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Stats merges the stored streak/accuracy record with live pool counts.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	engine := h.sessions.For(userID)

	stats, err := engine.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}

	total, mastered, err := h.cardRepo.PoolCounts(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}
	stats.TotalCards = total
	stats.MasteredCards = mastered

	writeJSON(w, http.StatusOK, stats)
}

func handleStudyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, study.ErrEmptyDeck), errors.Is(err, study.ErrInvalidMode):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case errors.Is(err, study.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", err.Error(), r))
	case errors.Is(err, study.ErrNotRevealed):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

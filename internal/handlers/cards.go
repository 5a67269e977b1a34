package handlers

import (
	"context"
	"net/http"

	"github.com/rua702356-pixel/Web-Japanese/internal/action"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
)

type CardHandler struct {
	cardRepo *repository.CardRepo
	actions  *action.Registry
}

func NewCardHandler(cardRepo *repository.CardRepo, actions *action.Registry) *CardHandler {
	return &CardHandler{cardRepo: cardRepo, actions: actions}
}

func (h *CardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.cardRepo.ListCategories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load categories", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// List returns the card pool, filtered by ?category= (repeatable) or
// ?search=. Search runs through the per-user action runner so rapid
// identical queries inside the debounce window are dropped.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if search := r.URL.Query().Get("search"); search != "" {
		runner := h.actions.For(userID)

		var opErr error
		result := runner.HandleSearch(r.Context(), func(ctx context.Context) (interface{}, error) {
			cards, err := h.cardRepo.SearchCards(ctx, userID, search)
			opErr = err
			return cards, err
		})

		if result == nil {
			if opErr != nil {
				writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Search failed", r))
				return
			}
			writeJSON(w, http.StatusTooManyRequests, errorResp("DUPLICATE_ACTION", "Identical search is already in flight", r))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"cards": result.([]models.StudyCard)})
		return
	}

	categories := r.URL.Query()["category"]

	var cards []models.StudyCard
	var err error
	if len(categories) == 0 {
		cards, err = h.cardRepo.ListCards(r.Context(), userID)
	} else {
		cards, err = h.cardRepo.CardsByCategories(r.Context(), userID, categories)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load cards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/newscheck/internal/api/middleware"
	"github.com/kiranshivaraju/newscheck/internal/api/response"
	"github.com/kiranshivaraju/newscheck/internal/store"
	"github.com/kiranshivaraju/newscheck/pkg/models"
)

// HistoryStore defines the store operations the history handlers depend on.
type HistoryStore interface {
	ListChecksByUser(ctx context.Context, userID string) ([]*models.HistoryItem, error)
	DeleteCheck(ctx context.Context, id uuid.UUID, userID string) error
}

// NewListHistoryHandler returns an http.HandlerFunc for GET /api/history.
// Items come back newest-first for the calling user.
func NewListHistoryHandler(st HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.ListChecksByUser(r.Context(), mw.GetUserID(r))
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load history", nil)
			return
		}
		response.JSON(w, items)
	}
}

// NewDeleteHistoryHandler returns an http.HandlerFunc for DELETE /api/history/{id}.
// A check owned by a different user is indistinguishable from a missing one:
// both return 404.
func NewDeleteHistoryHandler(st HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Check not found", nil)
			return
		}

		err = st.DeleteCheck(r.Context(), id, mw.GetUserID(r))
		switch {
		case errors.Is(err, store.ErrNotFound):
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Check not found", nil)
		case err != nil:
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to delete check", nil)
		default:
			response.NoContent(w)
		}
	}
}

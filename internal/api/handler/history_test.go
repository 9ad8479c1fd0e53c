package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/newscheck/internal/api/middleware"
	"github.com/kiranshivaraju/newscheck/internal/store"
	"github.com/kiranshivaraju/newscheck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryStore struct {
	items     []*models.HistoryItem
	listErr   error
	deleteErr error

	gotUserID string
	gotID     uuid.UUID
}

func (f *fakeHistoryStore) ListChecksByUser(_ context.Context, userID string) ([]*models.HistoryItem, error) {
	f.gotUserID = userID
	return f.items, f.listErr
}

func (f *fakeHistoryStore) DeleteCheck(_ context.Context, id uuid.UUID, userID string) error {
	f.gotID = id
	f.gotUserID = userID
	return f.deleteErr
}

func TestListHistory(t *testing.T) {
	item := &models.HistoryItem{
		ClaimAnalysis: models.ClaimAnalysis{
			ID:            uuid.New(),
			OriginalClaim: "old claim",
			Verdict:       models.VerdictPartial,
			Confidence:    60,
			Sources:       []models.Source{},
		},
		CreatedAt: time.Now().UTC(),
	}
	st := &fakeHistoryStore{items: []*models.HistoryItem{item}}
	h := NewListHistoryHandler(st)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req = req.WithContext(mw.SetUserID(req.Context(), "alice"))
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", st.gotUserID)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, item.ID.String(), got[0]["id"])
	assert.Equal(t, "partial", got[0]["verdict"])
	assert.Contains(t, got[0], "timestamp")
}

func TestListHistory_StoreError(t *testing.T) {
	st := &fakeHistoryStore{listErr: errors.New("database down")}
	h := NewListHistoryHandler(st)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func deleteHistory(h http.HandlerFunc, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/history/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestDeleteHistory(t *testing.T) {
	st := &fakeHistoryStore{}
	h := NewDeleteHistoryHandler(st)

	id := uuid.New()
	rec := deleteHistory(h, id.String())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, id, st.gotID)
	assert.Equal(t, mw.DefaultUserID, st.gotUserID)
}

func TestDeleteHistory_NotFound(t *testing.T) {
	st := &fakeHistoryStore{deleteErr: store.ErrNotFound}
	h := NewDeleteHistoryHandler(st)

	rec := deleteHistory(h, uuid.New().String())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHistory_MalformedID(t *testing.T) {
	st := &fakeHistoryStore{}
	h := NewDeleteHistoryHandler(st)

	rec := deleteHistory(h, "not-a-uuid")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, uuid.Nil, st.gotID, "the store must not be consulted for a malformed id")
}

func TestDeleteHistory_StoreError(t *testing.T) {
	st := &fakeHistoryStore{deleteErr: errors.New("database down")}
	h := NewDeleteHistoryHandler(st)

	rec := deleteHistory(h, uuid.New().String())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

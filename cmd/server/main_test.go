package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/newscheck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	pingErr error
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }
func (s *stubStore) CreateCheck(context.Context, string, *models.ClaimAnalysis) error {
	return nil
}
func (s *stubStore) ListChecksByUser(context.Context, string) ([]*models.HistoryItem, error) {
	return nil, nil
}
func (s *stubStore) GetCheck(context.Context, uuid.UUID, string) (*models.HistoryItem, error) {
	return nil, nil
}
func (s *stubStore) DeleteCheck(context.Context, uuid.UUID, string) error { return nil }

type stubCache struct {
	pingErr error
}

func (c *stubCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *stubCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (c *stubCache) Delete(context.Context, string) error                     { return nil }
func (c *stubCache) Ping(context.Context) error                               { return c.pingErr }
func (c *stubCache) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

func TestHealthHandler_AllOK(t *testing.T) {
	h := healthHandler(&stubStore{}, &stubCache{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Services["database"])
	assert.Equal(t, "ok", body.Services["cache"])
}

func TestHealthHandler_DatabaseDegraded(t *testing.T) {
	h := healthHandler(&stubStore{pingErr: errors.New("down")}, &stubCache{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DEGRADED")
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestHealthHandler_CacheDegraded(t *testing.T) {
	h := healthHandler(&stubStore{}, &stubCache{pingErr: errors.New("down")})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/newscheck/internal/api/middleware"
	"github.com/kiranshivaraju/newscheck/internal/api/response"
	"github.com/kiranshivaraju/newscheck/internal/factcheck"
	"github.com/kiranshivaraju/newscheck/pkg/models"
)

const (
	maxClaimLength = 2000
	maxBodyBytes   = 1 << 20

	// mockDelay normalizes the latency of the degraded path with a real
	// pipeline run. The 2s value is historical; no stronger rationale is
	// documented.
	mockDelay = 2 * time.Second
)

// ClaimChecker defines the interface the handler depends on.
type ClaimChecker interface {
	Check(ctx context.Context, claim, userID string) (*models.ClaimAnalysis, error)
}

// NewCheckClaimHandler returns an http.HandlerFunc for POST /api/check-claim.
// A failed pipeline never surfaces to the caller: the handler waits mockDelay
// and serves a deterministic placeholder with verdict unverified.
func NewCheckClaimHandler(checker ClaimChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var req struct {
			Claim string `json:"claim"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Claim == "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body",
				map[string]string{"claim": "claim is required and cannot be empty"})
			return
		}
		if len([]rune(req.Claim)) > maxClaimLength {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body",
				map[string]string{"claim": "claim exceeds maximum length of 2000 characters"})
			return
		}

		userID := mw.GetUserID(r)

		result, err := checker.Check(r.Context(), req.Claim, userID)
		if err != nil {
			slog.Error("check-claim pipeline failed", "error", err)
			select {
			case <-time.After(mockDelay):
			case <-r.Context().Done():
			}
			response.JSON(w, mockAnalysis(req.Claim))
			return
		}

		response.JSON(w, result)
	}
}

// mockAnalysis is the deterministic placeholder served when the pipeline
// fails, keeping the client flow alive with clearly-marked data.
func mockAnalysis(claim string) *models.ClaimAnalysis {
	now := time.Now().UTC()
	return &models.ClaimAnalysis{
		ID:            uuid.New(),
		OriginalClaim: claim,
		CleanedClaim:  factcheck.CleanClaim(claim),
		Verdict:       models.VerdictUnverified,
		Confidence:    50,
		Summary:       "The verification pipeline is temporarily unavailable. This is a mocked response.",
		Sources: []models.Source{
			{
				Title:            "Example Source",
				Source:           "Generic News",
				URL:              "https://example.com/generic",
				PublishedAt:      now.Format("2006-01-02"),
				Snippet:          "Placeholder source for degraded responses.",
				ReliabilityScore: 70,
			},
		},
		CheckedAt: now,
	}
}

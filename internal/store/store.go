package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/newscheck/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// CreateCheck persists a check and its sources in one transaction.
	CreateCheck(ctx context.Context, userID string, analysis *models.ClaimAnalysis) error
	// ListChecksByUser returns the user's checks newest-first, sources included.
	ListChecksByUser(ctx context.Context, userID string) ([]*models.HistoryItem, error)
	// GetCheck returns one check scoped to its owning user.
	GetCheck(ctx context.Context, id uuid.UUID, userID string) (*models.HistoryItem, error)
	// DeleteCheck removes a check if and only if it belongs to userID;
	// ErrNotFound otherwise.
	DeleteCheck(ctx context.Context, id uuid.UUID, userID string) error
}

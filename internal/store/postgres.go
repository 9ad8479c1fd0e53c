package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/newscheck/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateCheck inserts the check row and its sources atomically. Source order
// is preserved via the position column.
func (s *PostgresStore) CreateCheck(ctx context.Context, userID string, analysis *models.ClaimAnalysis) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create check: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO checks (id, user_id, original_claim, cleaned_claim, verdict, confidence, summary, checked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		analysis.ID, userID, analysis.OriginalClaim, analysis.CleanedClaim,
		string(analysis.Verdict), analysis.Confidence, analysis.Summary, analysis.CheckedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create check: %w", err)
	}

	for i, src := range analysis.Sources {
		_, err = tx.Exec(ctx,
			`INSERT INTO check_sources (check_id, position, title, source, url, published_at, snippet, reliability_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			analysis.ID, i, src.Title, src.Source, src.URL, src.PublishedAt, src.Snippet, src.ReliabilityScore)
		if err != nil {
			return fmt.Errorf("create check source: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create check: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListChecksByUser(ctx context.Context, userID string) ([]*models.HistoryItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, original_claim, cleaned_claim, verdict, confidence, summary, checked_at, created_at
		 FROM checks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	items := []*models.HistoryItem{}
	ids := []uuid.UUID{}
	for rows.Next() {
		item, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachSources(ctx, ids, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PostgresStore) GetCheck(ctx context.Context, id uuid.UUID, userID string) (*models.HistoryItem, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, original_claim, cleaned_claim, verdict, confidence, summary, checked_at, created_at
		 FROM checks WHERE id = $1 AND user_id = $2`, id, userID)

	item, err := scanCheck(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get check: %w", err)
	}

	if err := s.attachSources(ctx, []uuid.UUID{item.ID}, []*models.HistoryItem{item}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PostgresStore) DeleteCheck(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM checks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// attachSources loads sources for the given check ids and distributes them,
// preserving insert order.
func (s *PostgresStore) attachSources(ctx context.Context, ids []uuid.UUID, items []*models.HistoryItem) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT check_id, title, source, url, published_at, snippet, reliability_score
		 FROM check_sources WHERE check_id = ANY($1) ORDER BY check_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list check sources: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID][]models.Source, len(ids))
	for rows.Next() {
		var checkID uuid.UUID
		var src models.Source
		if err := rows.Scan(&checkID, &src.Title, &src.Source, &src.URL,
			&src.PublishedAt, &src.Snippet, &src.ReliabilityScore); err != nil {
			return fmt.Errorf("scan check source: %w", err)
		}
		byID[checkID] = append(byID[checkID], src)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, item := range items {
		item.Sources = byID[item.ID]
		if item.Sources == nil {
			item.Sources = []models.Source{}
		}
	}
	return nil
}

func scanCheck(row pgx.Row) (*models.HistoryItem, error) {
	var item models.HistoryItem
	var verdict string
	err := row.Scan(&item.ID, &item.OriginalClaim, &item.CleanedClaim, &verdict,
		&item.Confidence, &item.Summary, &item.CheckedAt, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Verdict = models.ParseVerdict(verdict)
	return &item, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)

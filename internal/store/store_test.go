package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/newscheck/internal/store"
	"github.com/kiranshivaraju/newscheck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupStore spins up a Postgres container, runs migrations and returns a
// connected PostgresStore.
func setupStore(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("newscheck_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, store.RunMigrations(dbURL, "../../migrations"))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return store.NewPostgresStore(pool)
}

func sampleAnalysis(claim string) *models.ClaimAnalysis {
	return &models.ClaimAnalysis{
		ID:            uuid.New(),
		OriginalClaim: claim,
		CleanedClaim:  claim,
		Verdict:       models.VerdictFalse,
		Confidence:    92,
		Summary:       "Thoroughly debunked by multiple sources.",
		Sources: []models.Source{
			{Title: "First", Source: "reuters.com", URL: "https://reuters.com/a",
				PublishedAt: "2026-01-02", Snippet: "snippet one", ReliabilityScore: 95},
			{Title: "Second", Source: "apnews.com", URL: "https://apnews.com/b",
				PublishedAt: "2026-01-03", Snippet: "snippet two", ReliabilityScore: 90},
		},
		CheckedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCreateAndGetCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("vaccines contain microchips")
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	item, err := st.GetCheck(ctx, analysis.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, analysis.ID, item.ID)
	assert.Equal(t, analysis.OriginalClaim, item.OriginalClaim)
	assert.Equal(t, models.VerdictFalse, item.Verdict)
	assert.Equal(t, 92, item.Confidence)
	assert.WithinDuration(t, analysis.CheckedAt, item.CheckedAt, time.Second)
	assert.False(t, item.CreatedAt.IsZero())

	require.Len(t, item.Sources, 2)
	assert.Equal(t, "First", item.Sources[0].Title, "sources keep their insert order")
	assert.Equal(t, "Second", item.Sources[1].Title)
	assert.Equal(t, 95, item.Sources[0].ReliabilityScore)
}

func TestCreateCheck_DuplicateID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("duplicate")
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	err := st.CreateCheck(ctx, "user-1", analysis)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestGetCheck_ScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("owned claim")
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	_, err := st.GetCheck(ctx, analysis.ID, "someone-else")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListChecksByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	older := sampleAnalysis("older claim")
	require.NoError(t, st.CreateCheck(ctx, "user-1", older))
	time.Sleep(50 * time.Millisecond)
	newer := sampleAnalysis("newer claim")
	require.NoError(t, st.CreateCheck(ctx, "user-1", newer))

	// Another user's check must not leak in.
	require.NoError(t, st.CreateCheck(ctx, "user-2", sampleAnalysis("other user")))

	items, err := st.ListChecksByUser(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID, "newest first")
	assert.Equal(t, older.ID, items[1].ID)
	assert.Len(t, items[0].Sources, 2)
}

func TestListChecksByUser_EmptyHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)

	items, err := st.ListChecksByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListChecksByUser_NoSources(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("no sources")
	analysis.Sources = nil
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	items, err := st.ListChecksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].Sources)
	assert.Empty(t, items[0].Sources)
}

func TestDeleteCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("to delete")
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	require.NoError(t, st.DeleteCheck(ctx, analysis.ID, "user-1"))

	_, err := st.GetCheck(ctx, analysis.ID, "user-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCheck_WrongOwnerLeavesRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)
	ctx := context.Background()

	analysis := sampleAnalysis("not yours")
	require.NoError(t, st.CreateCheck(ctx, "user-1", analysis))

	err := st.DeleteCheck(ctx, analysis.ID, "someone-else")
	assert.ErrorIs(t, err, store.ErrNotFound)

	item, err := st.GetCheck(ctx, analysis.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, item.ID)
}

func TestDeleteCheck_Missing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := setupStore(t)

	err := st.DeleteCheck(context.Background(), uuid.New(), "user-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepo(t *testing.T, max int) *SQLiteTripRepository {
	repo, err := NewSQLiteTripRepository(filepath.Join(t.TempDir(), "trips.db"), max)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// TestSQLiteTripRepository_AppendAndList verifies the most-recent-first order.
func TestSQLiteTripRepository_AppendAndList(t *testing.T) {
	repo := newTestSQLiteRepo(t, 100)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, tripNamed("first")))
	require.NoError(t, repo.Append(ctx, tripNamed("second")))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Destination)
	assert.Equal(t, "first", records[1].Destination)
	assert.Equal(t, 12, records[0].DurationMinutes)
}

// TestSQLiteTripRepository_CapEviction verifies insert-time eviction of the
// oldest rows.
func TestSQLiteTripRepository_CapEviction(t *testing.T) {
	repo := newTestSQLiteRepo(t, 5)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Append(ctx, tripNamed(fmt.Sprintf("trip-%d", i))))
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "trip-6", records[0].Destination)
	assert.Equal(t, "trip-2", records[4].Destination)
}

// TestSQLiteTripRepository_EmptyList verifies an empty log lists cleanly.
func TestSQLiteTripRepository_EmptyList(t *testing.T) {
	repo := newTestSQLiteRepo(t, 100)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestSQLiteTripRepository_Reopen verifies records survive reopening the
// file.
func TestSQLiteTripRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.db")
	ctx := context.Background()

	repo, err := NewSQLiteTripRepository(path, 100)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, tripNamed("persisted")))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteTripRepository(path, 100)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Destination)
}

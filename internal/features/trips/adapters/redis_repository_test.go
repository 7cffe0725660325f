package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"arrival-alert/internal/features/trips/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripNamed(name string) domain.TripRecord {
	return domain.TripRecord{
		Destination:     name,
		DistanceKm:      0.25,
		DurationMinutes: 12,
		StartedAt:       time.Date(2026, 8, 23, 11, 0, 0, 0, time.UTC),
		CompletedAt:     time.Date(2026, 8, 23, 11, 12, 0, 0, time.UTC),
	}
}

// TestRedisTripRepository_AppendAndList verifies the most-recent-first order.
func TestRedisTripRepository_AppendAndList(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, err := NewRedisTripRepository("redis://"+mr.Addr(), 100)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, tripNamed("first")))
	require.NoError(t, repo.Append(ctx, tripNamed("second")))
	require.NoError(t, repo.Append(ctx, tripNamed("third")))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Destination)
	assert.Equal(t, "first", records[2].Destination)
}

// TestRedisTripRepository_CapEviction verifies the log stays at the cap and
// evicts the oldest entry.
func TestRedisTripRepository_CapEviction(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, err := NewRedisTripRepository("redis://"+mr.Addr(), 100)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, repo.Append(ctx, tripNamed(fmt.Sprintf("trip-%d", i))))
	}

	require.NoError(t, repo.Append(ctx, tripNamed("overflow")))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 100, "log must stay at the cap")
	assert.Equal(t, "overflow", records[0].Destination, "newest entry kept")
	assert.Equal(t, "trip-1", records[99].Destination, "oldest entry evicted")
}

// TestRedisTripRepository_EmptyList verifies an empty log lists cleanly.
func TestRedisTripRepository_EmptyList(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, err := NewRedisTripRepository("redis://"+mr.Addr(), 100)
	require.NoError(t, err)
	defer repo.Close()

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestRedisTripRepository_InvalidURL verifies URL validation.
func TestRedisTripRepository_InvalidURL(t *testing.T) {
	_, err := NewRedisTripRepository("invalid://url", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

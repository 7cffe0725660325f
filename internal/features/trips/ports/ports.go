package ports

import (
	"context"

	"arrival-alert/internal/features/trips/domain"
)

// TripRepository is the secondary port for the trip log. The log is capped:
// appending beyond the maximum evicts the oldest record.
type TripRepository interface {
	// Append adds a record to the front of the log.
	Append(ctx context.Context, record domain.TripRecord) error
	// List returns the log, most recent first.
	List(ctx context.Context) ([]domain.TripRecord, error)
}

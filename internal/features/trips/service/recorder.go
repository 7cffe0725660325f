package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/trips/domain"
	"arrival-alert/internal/features/trips/ports"

	"go.uber.org/zap"
)

// Recorder finalizes completed trips into the trip log. It implements the
// tracking loop's TripRecorder port.
type Recorder struct {
	repo ports.TripRepository
	now  func() time.Time
}

// NewRecorder creates a new Recorder.
func NewRecorder(repo ports.TripRepository) *Recorder {
	return &Recorder{
		repo: repo,
		now:  time.Now,
	}
}

// Finalize builds the TripRecord for an arrived trip and appends it to the
// log. Duration is the rounded whole-minute difference between now and
// startedAt, 0 when startedAt is unknown.
func (r *Recorder) Finalize(ctx context.Context, destinationName string, distanceKm float64, startedAt time.Time) error {
	completedAt := r.now()

	minutes := 0
	if !startedAt.IsZero() {
		minutes = int(math.Round(completedAt.Sub(startedAt).Minutes()))
	}

	record := domain.TripRecord{
		Destination:     destinationName,
		DistanceKm:      distanceKm,
		DurationMinutes: minutes,
		StartedAt:       startedAt,
		CompletedAt:     completedAt,
	}

	if err := r.repo.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append trip: %w", err)
	}

	logger.Get().Info("Trip recorded",
		zap.String("destination", destinationName),
		zap.Int("duration_minutes", minutes),
	)

	return nil
}

// List returns the trip log, most recent first.
func (r *Recorder) List(ctx context.Context) ([]domain.TripRecord, error) {
	records, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return records, nil
}

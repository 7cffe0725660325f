package ports

import (
	"context"
	"time"

	"arrival-alert/internal/features/tracking/domain"
)

// Presenter receives display-facing updates from the tracking loop.
// Rendering is out of scope for the engine; implementations store or forward
// the updates and must never fail back into the loop.
type Presenter interface {
	// ShowStatus publishes the latest progress snapshot.
	ShowStatus(ctx context.Context, update domain.StatusUpdate)
	// ShowRoute redraws the route line between the two points.
	ShowRoute(ctx context.Context, from, to domain.Coordinate)
	// FitBounds fits the viewport around both points. Called at most once
	// per session.
	FitBounds(ctx context.Context, from, to domain.Coordinate)
	// ShowMessage surfaces a user-facing message, e.g. a position error.
	ShowMessage(ctx context.Context, text string)
}

// StatusReader serves the most recent status snapshot back to the UI.
type StatusReader interface {
	// Status returns the latest update, or nil when none was published yet.
	Status(ctx context.Context) (*domain.StatusUpdate, error)
}

// AlertDispatcher fans a crossed threshold out to the alert channels.
// Implementations must not block the tracking loop and must swallow channel
// failures.
type AlertDispatcher interface {
	Fire(threshold domain.Threshold, distanceKm float64, destinationName string)
}

// TripRecorder finalizes a completed trip into the trip log.
type TripRecorder interface {
	Finalize(ctx context.Context, destinationName string, distanceKm float64, startedAt time.Time) error
}

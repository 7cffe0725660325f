package ports

import (
	"context"
	"errors"
	"time"

	"arrival-alert/internal/features/tracking/domain"
)

// Position acquisition failures, classified so the loop can pick the right
// user-facing message. None of these end a running session.
var (
	// ErrPermissionDenied means the user has not granted location access.
	ErrPermissionDenied = errors.New("position permission denied")
	// ErrPositionUnavailable means no fix could be produced.
	ErrPositionUnavailable = errors.New("position unavailable")
	// ErrPositionTimeout means a fix did not arrive within the deadline.
	ErrPositionTimeout = errors.New("position request timed out")
)

// WatchOptions tune how eagerly the source acquires positions.
type WatchOptions struct {
	// HighAccuracy asks the source for its best fix even at a power cost.
	HighAccuracy bool
	// Timeout bounds a single acquisition attempt.
	Timeout time.Duration
	// MaxSampleAge is the oldest cached fix the source may serve.
	MaxSampleAge time.Duration
}

// SampleFunc receives position samples from the source.
type SampleFunc func(domain.PositionSample)

// ErrorFunc receives acquisition failures from the source.
type ErrorFunc func(error)

// WatchHandle cancels a continuous subscription.
type WatchHandle interface {
	// Cancel stops delivery. Calling Cancel more than once is safe.
	Cancel()
}

// PositionSource is the capability interface over the device position feed.
type PositionSource interface {
	// Watch subscribes to continuous position updates until the returned
	// handle is cancelled.
	Watch(onSample SampleFunc, onError ErrorFunc, opts WatchOptions) (WatchHandle, error)
	// PollOnce acquires a single position, used as a fallback when the
	// continuous stream goes quiet.
	PollOnce(ctx context.Context, opts WatchOptions) (domain.PositionSample, error)
}

// SampleIngest accepts device-reported samples into the position feed.
type SampleIngest interface {
	// Publish delivers a sample to every active watch subscription.
	Publish(sample domain.PositionSample)
	// PublishError forwards an acquisition failure reported by the device.
	PublishError(err error)
}

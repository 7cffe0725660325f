package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackingSession is the state of one tracking run from start to stop or
// arrival. Exactly one session is live at a time, owned by the tracking loop.
type TrackingSession struct {
	// ID uniquely identifies the session.
	ID string `json:"id"`
	// Destination is the resolved target coordinate.
	Destination Coordinate `json:"destination"`
	// DestinationName is the display name the destination resolved from.
	DestinationName string `json:"destination_name"`
	// StartedAt is when tracking began.
	StartedAt time.Time `json:"started_at"`
	// Thresholds holds the per-session notified set.
	Thresholds *ThresholdMachine `json:"-"`
	// Active is false once the session was stopped or arrived.
	Active bool `json:"active"`
	// BoundsFitted records that the map viewport was fitted once for this
	// session; later samples must not fight user pan and zoom.
	BoundsFitted bool `json:"-"`
	// LastPosition is overwritten by every accepted sample.
	LastPosition *PositionSample `json:"-"`
	// RouteFrom is the origin the route line was last drawn from.
	RouteFrom *Coordinate `json:"-"`
}

// NewTrackingSession creates an active session for the given destination.
func NewTrackingSession(destination Coordinate, name string, startedAt time.Time) *TrackingSession {
	return &TrackingSession{
		ID:              uuid.NewString(),
		Destination:     destination,
		DestinationName: name,
		StartedAt:       startedAt,
		Thresholds:      NewThresholdMachine(),
		Active:          true,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/tracking/domain"
	"arrival-alert/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// ErrDestinationUnresolved is returned when Start is called without a usable
// destination. A session must never begin with an unset destination.
var ErrDestinationUnresolved = errors.New("destination unresolved")

// routeRedrawMinKm is how far the origin must move before the route line is
// redrawn. Smaller moves keep the existing line.
const routeRedrawMinKm = 0.05

// Config carries the tuning knobs for the tracking loop.
type Config struct {
	// Watch is passed to the position source for both input paths.
	Watch ports.WatchOptions
	// PollInterval is the cadence of the fallback poll covering gaps in
	// the continuous subscription.
	PollInterval time.Duration
}

// Tracker owns the single active TrackingSession and drives the
// sample pipeline: distance, status display, route updates, threshold
// evaluation, alert dispatch and trip finalization on arrival.
//
// Two producers feed the same handler: the continuous watch subscription on
// the position source and the fallback poll ticker. Handler invocations are
// serialized by the mutex, so interleaved samples from either producer cannot
// corrupt the session's notified set.
type Tracker struct {
	source    ports.PositionSource
	presenter ports.Presenter
	alerts    ports.AlertDispatcher
	trips     ports.TripRecorder
	cfg       Config
	now       func() time.Time

	mu       sync.Mutex
	session  *domain.TrackingSession
	watch    ports.WatchHandle
	pollStop chan struct{}
}

// NewTracker creates a Tracker in the idle state.
func NewTracker(source ports.PositionSource, presenter ports.Presenter, alerts ports.AlertDispatcher, trips ports.TripRecorder, cfg Config) *Tracker {
	return &Tracker{
		source:    source,
		presenter: presenter,
		alerts:    alerts,
		trips:     trips,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start begins tracking toward the given destination. If a session is already
// running, its subscription and fallback poll are torn down before the new
// session is created, so no two subscriptions ever overlap.
func (t *Tracker) Start(destination domain.Coordinate, name string) (*domain.TrackingSession, error) {
	if name == "" || !destination.Valid() {
		return nil, ErrDestinationUnresolved
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.teardownLocked()
	if t.session != nil {
		t.session.Active = false
	}

	session := domain.NewTrackingSession(destination, name, t.now())
	t.session = session

	handle, err := t.source.Watch(t.handleSample, t.handleError, t.cfg.Watch)
	if err != nil {
		t.session = nil
		return nil, fmt.Errorf("failed to subscribe to position source: %w", err)
	}
	t.watch = handle

	stop := make(chan struct{})
	t.pollStop = stop
	go t.pollLoop(stop)

	logger.Get().Info("Tracking started",
		zap.String("session_id", session.ID),
		zap.String("destination", name),
	)

	return session, nil
}

// Stop ends the active session and cancels both input sources. Calling Stop
// when nothing is tracking is a no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Session returns the current session, or nil when none has been started.
// The returned session may already be inactive.
func (t *Tracker) Session() *domain.TrackingSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// pollLoop runs the fallback poll until stop is closed. A failed poll is
// classified and surfaced like any other position error; the loop keeps
// going regardless.
func (t *Tracker) pollLoop(stop chan struct{}) {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), t.cfg.Watch.Timeout)
			sample, err := t.source.PollOnce(ctx, t.cfg.Watch)
			cancel()
			if err != nil {
				t.handleError(err)
				continue
			}
			t.handleSample(sample)
		}
	}
}

// handleSample runs the per-sample pipeline. Both producers funnel into this
// handler; it is idempotent per threshold level, so a fallback-poll sample
// repeating a watch sample cannot double-fire an alert.
func (t *Tracker) handleSample(sample domain.PositionSample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.session
	if s == nil || !s.Active {
		// A stale sample after Stop is expected and harmless.
		return
	}

	s.LastPosition = &sample

	ctx := context.Background()
	distance := domain.DistanceKm(sample.Coordinate, s.Destination)

	t.presenter.ShowStatus(ctx, statusFor(sample, distance))

	if s.RouteFrom == nil || domain.DistanceKm(*s.RouteFrom, sample.Coordinate) >= routeRedrawMinKm {
		from := sample.Coordinate
		s.RouteFrom = &from
		t.presenter.ShowRoute(ctx, from, s.Destination)
	}

	if !s.BoundsFitted {
		s.BoundsFitted = true
		t.presenter.FitBounds(ctx, sample.Coordinate, s.Destination)
	}

	threshold, crossed := s.Thresholds.Evaluate(distance)
	if !crossed {
		return
	}

	t.alerts.Fire(threshold, distance, s.DestinationName)

	if threshold.Level == domain.LevelArrived {
		if err := t.trips.Finalize(ctx, s.DestinationName, distance, s.StartedAt); err != nil {
			logger.Get().Error("Failed to record completed trip", zap.Error(err))
		}
		t.stopLocked()
	}
}

// handleError surfaces a position failure without ending the session. Only
// Stop or arrival end a session; the fallback poll keeps retrying.
func (t *Tracker) handleError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil || !t.session.Active {
		return
	}

	logger.Get().Warn("Position acquisition failed", zap.Error(err))
	t.presenter.ShowMessage(context.Background(), userMessage(err))
}

// stopLocked deactivates the session and tears down both producers. Safe to
// call on an already-stopped tracker.
func (t *Tracker) stopLocked() {
	if t.session == nil || !t.session.Active {
		return
	}

	t.teardownLocked()
	t.session.Active = false

	logger.Get().Info("Tracking stopped", zap.String("session_id", t.session.ID))
}

// teardownLocked cancels the watch subscription and the fallback poll.
func (t *Tracker) teardownLocked() {
	if t.watch != nil {
		t.watch.Cancel()
		t.watch = nil
	}
	if t.pollStop != nil {
		close(t.pollStop)
		t.pollStop = nil
	}
}

// statusFor converts a sample and its computed distance into the display
// snapshot, converting speed from m/s to km/h.
func statusFor(sample domain.PositionSample, distanceKm float64) domain.StatusUpdate {
	update := domain.StatusUpdate{
		DistanceKm:     distanceKm,
		AccuracyMeters: sample.AccuracyMeters,
	}
	if sample.SpeedMS != nil {
		kmh := *sample.SpeedMS * 3.6
		update.SpeedKmh = &kmh
	}
	return update
}

// userMessage maps a position failure onto the message shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrPermissionDenied):
		return "Location permission is denied. Enable location access to keep tracking."
	case errors.Is(err, ports.ErrPositionUnavailable):
		return "Current position is unavailable. Check GPS and move to open sky."
	case errors.Is(err, ports.ErrPositionTimeout):
		return "Position request timed out. Tracking will retry automatically."
	default:
		return "Could not read current position. Tracking will retry automatically."
	}
}

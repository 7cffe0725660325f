package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"arrival-alert/internal/features/tracking/domain"
	"arrival-alert/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kmPerDegreeLat converts a latitude offset into kilometers on the 6371 km
// sphere the haversine formula uses.
const kmPerDegreeLat = math.Pi * 6371 / 180

// colombo is the destination used across the loop tests.
var colombo = domain.Coordinate{Latitude: 6.9271, Longitude: 79.8612}

// sampleAt builds a sample the given distance due north of the destination.
func sampleAt(km float64) domain.PositionSample {
	return domain.PositionSample{
		Coordinate: domain.Coordinate{
			Latitude:  colombo.Latitude + km/kmPerDegreeLat,
			Longitude: colombo.Longitude,
		},
		AccuracyMeters: 10,
		Timestamp:      time.Now(),
	}
}

// scriptedSource is a fake PositionSource driven directly by the test.
type scriptedSource struct {
	mu       sync.Mutex
	onSample ports.SampleFunc
	onError  ports.ErrorFunc
	watches  int
	cancels  int

	pollSample *domain.PositionSample
	pollErr    error
}

// Watch implements PositionSource.
func (s *scriptedSource) Watch(onSample ports.SampleFunc, onError ports.ErrorFunc, _ ports.WatchOptions) (ports.WatchHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watches++
	s.onSample = onSample
	s.onError = onError
	return &scriptedHandle{source: s}, nil
}

// PollOnce implements PositionSource.
func (s *scriptedSource) PollOnce(_ context.Context, _ ports.WatchOptions) (domain.PositionSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pollErr != nil {
		return domain.PositionSample{}, s.pollErr
	}
	if s.pollSample == nil {
		return domain.PositionSample{}, ports.ErrPositionUnavailable
	}
	return *s.pollSample, nil
}

func (s *scriptedSource) push(sample domain.PositionSample) {
	s.mu.Lock()
	fn := s.onSample
	s.mu.Unlock()
	if fn != nil {
		fn(sample)
	}
}

func (s *scriptedSource) fail(err error) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (s *scriptedSource) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

type scriptedHandle struct {
	source *scriptedSource
	once   sync.Once
}

// Cancel implements WatchHandle.
func (h *scriptedHandle) Cancel() {
	h.once.Do(func() {
		h.source.mu.Lock()
		h.source.cancels++
		h.source.onSample = nil
		h.source.onError = nil
		h.source.mu.Unlock()
	})
}

// recordingPresenter captures display updates.
type recordingPresenter struct {
	mu       sync.Mutex
	statuses []domain.StatusUpdate
	routes   int
	bounds   int
	messages []string
}

func (p *recordingPresenter) ShowStatus(_ context.Context, update domain.StatusUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, update)
}

func (p *recordingPresenter) ShowRoute(_ context.Context, _, _ domain.Coordinate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes++
}

func (p *recordingPresenter) FitBounds(_ context.Context, _, _ domain.Coordinate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bounds++
}

func (p *recordingPresenter) ShowMessage(_ context.Context, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, text)
}

// recordingDispatcher captures fired thresholds.
type recordingDispatcher struct {
	mu    sync.Mutex
	fired []domain.Level
}

func (d *recordingDispatcher) Fire(threshold domain.Threshold, _ float64, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fired = append(d.fired, threshold.Level)
}

func (d *recordingDispatcher) levels() []domain.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Level(nil), d.fired...)
}

// recordingRecorder captures trip finalizations.
type recordingRecorder struct {
	mu           sync.Mutex
	finalized    int
	destinations []string
}

func (r *recordingRecorder) Finalize(_ context.Context, destinationName string, _ float64, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalized++
	r.destinations = append(r.destinations, destinationName)
	return nil
}

func (r *recordingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalized
}

func newTestTracker(source *scriptedSource) (*Tracker, *recordingPresenter, *recordingDispatcher, *recordingRecorder) {
	presenter := &recordingPresenter{}
	dispatcher := &recordingDispatcher{}
	recorder := &recordingRecorder{}
	tracker := NewTracker(source, presenter, dispatcher, recorder, Config{
		Watch:        ports.WatchOptions{Timeout: time.Second, MaxSampleAge: time.Minute},
		PollInterval: time.Hour, // keep the ticker quiet unless a test wants it
	})
	return tracker, presenter, dispatcher, recorder
}

// TestTracker_Start_UnresolvedDestination verifies a session never starts
// without a usable destination.
func TestTracker_Start_UnresolvedDestination(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, _, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "")
	assert.ErrorIs(t, err, ErrDestinationUnresolved)

	_, err = tracker.Start(domain.Coordinate{Latitude: 120, Longitude: 0}, "Nowhere")
	assert.ErrorIs(t, err, ErrDestinationUnresolved)

	assert.Nil(t, tracker.Session())
}

// TestTracker_ApproachSequence drives a full approach trajectory and checks
// the staged alerts, the trip record and the session shutdown on arrival.
func TestTracker_ApproachSequence(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, dispatcher, recorder := newTestTracker(source)

	session, err := tracker.Start(colombo, "Galle Face Green")
	require.NoError(t, err)
	require.True(t, session.Active)

	for _, km := range []float64{2.5, 1.8, 0.9, 0.6, 0.25} {
		source.push(sampleAt(km))
	}

	assert.Equal(t, []domain.Level{
		domain.LevelApproaching,
		domain.LevelNear,
		domain.LevelClose,
		domain.LevelArrived,
	}, dispatcher.levels())

	assert.False(t, tracker.Session().Active, "session must be stopped after arrival")
	assert.Equal(t, 1, recorder.count(), "exactly one trip record per arrival")
	assert.Equal(t, []string{"Galle Face Green"}, recorder.destinations)
	assert.Equal(t, 1, source.cancelCount(), "arrival must cancel the subscription")
}

// TestTracker_FirstSampleInsideArrivedRadius verifies a single dispatch when
// the trip starts already at the destination.
func TestTracker_FirstSampleInsideArrivedRadius(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, dispatcher, recorder := newTestTracker(source)

	_, err := tracker.Start(colombo, "Home")
	require.NoError(t, err)

	source.push(sampleAt(0.1))

	assert.Equal(t, []domain.Level{domain.LevelArrived}, dispatcher.levels())
	assert.Equal(t, 1, recorder.count())
	assert.False(t, tracker.Session().Active)
}

// TestTracker_RepeatedSamplesDoNotRefire verifies handler idempotency when
// the watch and fallback paths deliver overlapping positions.
func TestTracker_RepeatedSamplesDoNotRefire(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, dispatcher, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	source.push(sampleAt(1.8))
	source.push(sampleAt(1.8))
	source.push(sampleAt(1.9))

	assert.Equal(t, []domain.Level{domain.LevelApproaching}, dispatcher.levels())
}

// TestTracker_StopIsIdempotent verifies a second Stop is a no-op.
func TestTracker_StopIsIdempotent(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, _, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	tracker.Stop()
	tracker.Stop()

	assert.Equal(t, 1, source.cancelCount())
	assert.False(t, tracker.Session().Active)
}

// TestTracker_RestartCancelsPriorSubscription verifies that starting while
// tracking tears the old subscription down exactly once and a sample is then
// handled by a single subscription.
func TestTracker_RestartCancelsPriorSubscription(t *testing.T) {
	source := &scriptedSource{}
	tracker, _, dispatcher, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	_, err = tracker.Start(colombo, "Office Again")
	require.NoError(t, err)

	source.mu.Lock()
	watches := source.watches
	source.mu.Unlock()

	assert.Equal(t, 2, watches)
	assert.Equal(t, 1, source.cancelCount())

	source.push(sampleAt(1.8))
	assert.Len(t, dispatcher.levels(), 1, "a single sample must fire exactly once")
}

// TestTracker_PositionErrorKeepsSessionAlive verifies geolocation failures
// surface a message without tearing the session down.
func TestTracker_PositionErrorKeepsSessionAlive(t *testing.T) {
	source := &scriptedSource{}
	tracker, presenter, dispatcher, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	source.fail(ports.ErrPermissionDenied)
	source.fail(ports.ErrPositionUnavailable)
	source.fail(ports.ErrPositionTimeout)

	presenter.mu.Lock()
	messages := append([]string(nil), presenter.messages...)
	presenter.mu.Unlock()

	require.Len(t, messages, 3)
	assert.Contains(t, messages[0], "permission")
	assert.Contains(t, messages[1], "unavailable")
	assert.Contains(t, messages[2], "timed out")

	assert.True(t, tracker.Session().Active)

	// The session keeps processing samples after failures.
	source.push(sampleAt(1.8))
	assert.Equal(t, []domain.Level{domain.LevelApproaching}, dispatcher.levels())
}

// TestTracker_FitsBoundsOnce verifies the viewport is fitted for the first
// sample only.
func TestTracker_FitsBoundsOnce(t *testing.T) {
	source := &scriptedSource{}
	tracker, presenter, _, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	source.push(sampleAt(5))
	source.push(sampleAt(4))
	source.push(sampleAt(3))

	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	assert.Equal(t, 1, presenter.bounds)
	assert.Len(t, presenter.statuses, 3)
}

// TestTracker_RouteRedrawOnlyOnMaterialMove verifies the route line is not
// redrawn for sub-50m movements.
func TestTracker_RouteRedrawOnlyOnMaterialMove(t *testing.T) {
	source := &scriptedSource{}
	tracker, presenter, _, _ := newTestTracker(source)

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)

	source.push(sampleAt(5))
	source.push(sampleAt(4.99)) // 10 m, no redraw
	source.push(sampleAt(4.5))  // 490 m, redraw

	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	assert.Equal(t, 2, presenter.routes)
}

// TestTracker_FallbackPollFeedsHandler verifies the periodic poll path feeds
// the same pipeline as the watch subscription.
func TestTracker_FallbackPollFeedsHandler(t *testing.T) {
	sample := sampleAt(1.8)
	source := &scriptedSource{pollSample: &sample}
	presenter := &recordingPresenter{}
	dispatcher := &recordingDispatcher{}
	recorder := &recordingRecorder{}

	tracker := NewTracker(source, presenter, dispatcher, recorder, Config{
		Watch:        ports.WatchOptions{Timeout: time.Second, MaxSampleAge: time.Minute},
		PollInterval: 10 * time.Millisecond,
	})

	_, err := tracker.Start(colombo, "Office")
	require.NoError(t, err)
	defer tracker.Stop()

	assert.Eventually(t, func() bool {
		return len(dispatcher.levels()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.Level{domain.LevelApproaching}, dispatcher.levels())
}

// TestStatusFor_SpeedConversion verifies m/s to km/h conversion and nil
// passthrough.
func TestStatusFor_SpeedConversion(t *testing.T) {
	speed := 10.0
	update := statusFor(domain.PositionSample{SpeedMS: &speed, AccuracyMeters: 8}, 1.2)

	require.NotNil(t, update.SpeedKmh)
	assert.InDelta(t, 36.0, *update.SpeedKmh, 1e-9)
	assert.Equal(t, 8.0, update.AccuracyMeters)

	update = statusFor(domain.PositionSample{}, 1.2)
	assert.Nil(t, update.SpeedKmh)
}

package adapters

import (
	"context"
	"sync"
	"time"

	"arrival-alert/internal/features/tracking/domain"
	"arrival-alert/internal/features/tracking/ports"
)

// DeviceFeed implements ports.PositionSource over samples the device pushes
// through the HTTP API. Published samples fan out to every active watch
// subscription; PollOnce serves the most recent sample while it is still
// fresh, covering gaps when the device stops pushing.
type DeviceFeed struct {
	mu       sync.Mutex
	nextID   int
	watchers map[int]watcher
	last     *domain.PositionSample
	now      func() time.Time
}

type watcher struct {
	onSample ports.SampleFunc
	onError  ports.ErrorFunc
}

// NewDeviceFeed creates an empty feed with no subscriptions.
func NewDeviceFeed() *DeviceFeed {
	return &DeviceFeed{
		watchers: make(map[int]watcher),
		now:      time.Now,
	}
}

// Publish delivers a device-reported sample to every active subscription and
// remembers it for PollOnce. Samples without a timestamp are stamped on
// arrival.
func (f *DeviceFeed) Publish(sample domain.PositionSample) {
	f.mu.Lock()
	if sample.Timestamp.IsZero() {
		sample.Timestamp = f.now()
	}
	f.last = &sample
	targets := make([]watcher, 0, len(f.watchers))
	for _, w := range f.watchers {
		targets = append(targets, w)
	}
	f.mu.Unlock()

	// Callbacks run outside the feed lock so a handler may re-enter the feed.
	for _, w := range targets {
		w.onSample(sample)
	}
}

// PublishError forwards an acquisition failure reported by the device to
// every active subscription.
func (f *DeviceFeed) PublishError(err error) {
	f.mu.Lock()
	targets := make([]watcher, 0, len(f.watchers))
	for _, w := range f.watchers {
		targets = append(targets, w)
	}
	f.mu.Unlock()

	for _, w := range targets {
		w.onError(err)
	}
}

// Watch registers the callbacks; delivery starts with the next published
// sample.
func (f *DeviceFeed) Watch(onSample ports.SampleFunc, onError ports.ErrorFunc, _ ports.WatchOptions) (ports.WatchHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.watchers[id] = watcher{onSample: onSample, onError: onError}

	return &feedHandle{feed: f, id: id}, nil
}

// PollOnce returns the most recent device sample. A feed that never saw a
// sample reports the position unavailable; a sample older than the configured
// max age reports a timeout, since the device stopped responding.
func (f *DeviceFeed) PollOnce(_ context.Context, opts ports.WatchOptions) (domain.PositionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.last == nil {
		return domain.PositionSample{}, ports.ErrPositionUnavailable
	}
	if opts.MaxSampleAge > 0 && f.now().Sub(f.last.Timestamp) > opts.MaxSampleAge {
		return domain.PositionSample{}, ports.ErrPositionTimeout
	}

	return *f.last, nil
}

// feedHandle cancels one subscription. Cancel is idempotent.
type feedHandle struct {
	feed *DeviceFeed
	id   int
	once sync.Once
}

// Cancel implements ports.WatchHandle.
func (h *feedHandle) Cancel() {
	h.once.Do(func() {
		h.feed.mu.Lock()
		delete(h.feed.watchers, h.id)
		h.feed.mu.Unlock()
	})
}

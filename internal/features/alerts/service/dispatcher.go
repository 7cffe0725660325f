package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/alerts/domain"
	"arrival-alert/internal/features/alerts/ports"
	tracking "arrival-alert/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// Dispatcher fans one threshold event out to the alert channels. It
// implements the tracking loop's AlertDispatcher port: every channel effect
// runs in its own goroutine, fails independently and is only ever logged,
// so nothing here can interrupt the tracking loop.
type Dispatcher struct {
	banners  ports.BannerStore
	notifier ports.Notifier
	effects  ports.EffectPlayer
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. timeout bounds each individual channel
// effect.
func NewDispatcher(banners ports.BannerStore, notifier ports.Notifier, effects ports.EffectPlayer, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		banners:  banners,
		notifier: notifier,
		effects:  effects,
		timeout:  timeout,
	}
}

// Fire dispatches the alert for a crossed threshold. The in-app banner always
// fires; important thresholds escalate to a system notification and a haptic
// pattern; arrival additionally plays the audible chime.
func (d *Dispatcher) Fire(threshold tracking.Threshold, distanceKm float64, destinationName string) {
	banner := bannerFor(threshold, distanceKm, destinationName)

	d.run("banner", func(ctx context.Context) error {
		return d.banners.Show(ctx, banner)
	})

	if !threshold.Important {
		return
	}

	d.run("notification", func(ctx context.Context) error {
		return d.notifier.Notify(ctx, banner.Title, banner.Body)
	})
	d.run("haptic", func(ctx context.Context) error {
		return d.effects.Haptic(ctx, hapticPatternFor(threshold.Level))
	})

	if threshold.Level == tracking.LevelArrived {
		d.run("chime", func(ctx context.Context) error {
			return d.effects.Chime(ctx)
		})
	}
}

// Flush waits for in-flight channel effects to finish. Intended for shutdown
// and tests; the tracking loop never waits on dispatch.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}

// run executes one channel effect in the background. A failed or panicking
// channel is logged and never propagated.
func (d *Dispatcher) run(channel string, fn func(context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("Alert channel panicked",
					zap.String("channel", channel),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.Get().Warn("Alert channel failed",
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}()
}

// bannerFor builds the in-app banner for a threshold crossing. Banner
// lifetime grows with urgency; the arrival banner is persistent.
func bannerFor(threshold tracking.Threshold, distanceKm float64, destinationName string) *domain.Banner {
	banner := &domain.Banner{CreatedAt: time.Now()}

	switch threshold.Level {
	case tracking.LevelApproaching:
		banner.Title = "Approaching destination"
		banner.Severity = domain.SeverityInfo
		banner.DurationSeconds = 4
	case tracking.LevelNear:
		banner.Title = "Getting near"
		banner.Severity = domain.SeverityInfo
		banner.DurationSeconds = 6
	case tracking.LevelClose:
		banner.Title = "Almost there"
		banner.Severity = domain.SeverityWarning
		banner.DurationSeconds = 10
	case tracking.LevelArrived:
		banner.Title = "You have arrived"
		banner.Severity = domain.SeverityCritical
		banner.DurationSeconds = 0
	}

	if threshold.Level == tracking.LevelArrived {
		banner.Body = fmt.Sprintf("Arrived at %s", destinationName)
	} else {
		banner.Body = fmt.Sprintf("%.1f km to %s", distanceKm, destinationName)
	}

	return banner
}

// hapticPatternFor maps a level onto the device haptic pattern name.
func hapticPatternFor(level tracking.Level) string {
	if level == tracking.LevelArrived {
		return "arrival"
	}
	return "pulse"
}

package ports

import (
	"context"

	"arrival-alert/internal/features/alerts/domain"
)

// BannerStore is the secondary port for the in-app banner.
type BannerStore interface {
	// Show publishes the banner, replacing any current one.
	Show(ctx context.Context, banner *domain.Banner) error
	// Current returns the active banner, or nil when none is up.
	Current(ctx context.Context) (*domain.Banner, error)
	// Clear dismisses the current banner.
	Clear(ctx context.Context) error
}

// Notifier pushes a system-level notification. Implementations silently
// no-op when the channel was never authorized.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// EffectPlayer triggers device-side effects.
type EffectPlayer interface {
	// Haptic plays the named haptic pattern.
	Haptic(ctx context.Context, pattern string) error
	// Chime plays the audible arrival alert.
	Chime(ctx context.Context) error
}

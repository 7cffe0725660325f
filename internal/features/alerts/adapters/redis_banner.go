package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arrival-alert/internal/core/cache"
	"arrival-alert/internal/features/alerts/domain"
)

const bannerCacheKey = "arrival_banner"

// RedisBannerStore implements ports.BannerStore on the cache. The banner's
// auto-dismiss duration maps onto the cache TTL, so an expired banner simply
// disappears; a zero duration stores the banner without expiry.
type RedisBannerStore struct {
	cache cache.Cache
}

// NewRedisBannerStore creates a new RedisBannerStore.
func NewRedisBannerStore(c cache.Cache) *RedisBannerStore {
	return &RedisBannerStore{cache: c}
}

// Show stores the banner, replacing any current one.
func (r *RedisBannerStore) Show(ctx context.Context, banner *domain.Banner) error {
	data, err := json.Marshal(banner)
	if err != nil {
		return fmt.Errorf("failed to marshal banner: %w", err)
	}

	ttl := time.Duration(banner.DurationSeconds) * time.Second

	if err := r.cache.Set(ctx, bannerCacheKey, data, ttl); err != nil {
		return fmt.Errorf("failed to save banner to cache: %w", err)
	}

	return nil
}

// Current retrieves the active banner, or nil when none is up.
func (r *RedisBannerStore) Current(ctx context.Context) (*domain.Banner, error) {
	data, err := r.cache.Get(ctx, bannerCacheKey)
	if err != nil {
		if err.Error() == fmt.Sprintf("key not found: %s", bannerCacheKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get banner from cache: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var banner domain.Banner
	if err := json.Unmarshal(data, &banner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal banner: %w", err)
	}

	return &banner, nil
}

// Clear dismisses the current banner.
func (r *RedisBannerStore) Clear(ctx context.Context) error {
	if err := r.cache.Delete(ctx, bannerCacheKey); err != nil {
		return fmt.Errorf("failed to clear banner: %w", err)
	}
	return nil
}

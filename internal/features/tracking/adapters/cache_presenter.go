package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"arrival-alert/internal/core/cache"
	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/tracking/domain"

	"go.uber.org/zap"
)

const (
	statusCacheKey  = "tracking_status"
	routeCacheKey   = "tracking_route"
	boundsCacheKey  = "tracking_bounds"
	messageCacheKey = "tracking_message"
)

// routeDocument is the stored shape for route and viewport updates.
type routeDocument struct {
	From domain.Coordinate `json:"from"`
	To   domain.Coordinate `json:"to"`
}

// CachePresenter implements ports.Presenter and ports.StatusReader by storing
// the latest display state in the cache, where the UI polls it. Display writes
// are fire-and-forget: failures are logged and never reach the tracking loop.
type CachePresenter struct {
	cache cache.Cache
}

// NewCachePresenter creates a CachePresenter on top of the given cache.
func NewCachePresenter(c cache.Cache) *CachePresenter {
	return &CachePresenter{cache: c}
}

// ShowStatus stores the latest progress snapshot.
func (p *CachePresenter) ShowStatus(ctx context.Context, update domain.StatusUpdate) {
	p.store(ctx, statusCacheKey, update)
}

// ShowRoute stores the latest route endpoints.
func (p *CachePresenter) ShowRoute(ctx context.Context, from, to domain.Coordinate) {
	p.store(ctx, routeCacheKey, routeDocument{From: from, To: to})
}

// FitBounds stores the viewport to fit around both points.
func (p *CachePresenter) FitBounds(ctx context.Context, from, to domain.Coordinate) {
	p.store(ctx, boundsCacheKey, routeDocument{From: from, To: to})
}

// ShowMessage stores a user-facing message.
func (p *CachePresenter) ShowMessage(ctx context.Context, text string) {
	if err := p.cache.Set(ctx, messageCacheKey, []byte(text), 0); err != nil {
		logger.Get().Warn("Failed to store tracking message", zap.Error(err))
	}
}

// Status returns the latest progress snapshot, or nil when none was
// published yet.
func (p *CachePresenter) Status(ctx context.Context) (*domain.StatusUpdate, error) {
	data, err := p.cache.Get(ctx, statusCacheKey)
	if err != nil {
		if err.Error() == fmt.Sprintf("key not found: %s", statusCacheKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tracking status: %w", err)
	}

	var update domain.StatusUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracking status: %w", err)
	}

	return &update, nil
}

func (p *CachePresenter) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn("Failed to marshal display update", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.cache.Set(ctx, key, data, 0); err != nil {
		logger.Get().Warn("Failed to store display update", zap.String("key", key), zap.Error(err))
	}
}

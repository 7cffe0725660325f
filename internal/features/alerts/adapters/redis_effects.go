package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"arrival-alert/internal/features/alerts/domain"

	"github.com/redis/go-redis/v9"
)

// RedisEffectPlayer implements ports.EffectPlayer by publishing effect
// commands on a redis channel the device companion app subscribes to.
type RedisEffectPlayer struct {
	client  *redis.Client
	channel string
}

// NewRedisEffectPlayer creates a player publishing on the given channel.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisEffectPlayer(redisURL, channel string) (*RedisEffectPlayer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisEffectPlayer{
		client:  redis.NewClient(opts),
		channel: channel,
	}, nil
}

// Haptic publishes a haptic effect command.
func (p *RedisEffectPlayer) Haptic(ctx context.Context, pattern string) error {
	return p.publish(ctx, domain.Effect{Kind: domain.EffectHaptic, Pattern: pattern})
}

// Chime publishes the audible arrival alert command.
func (p *RedisEffectPlayer) Chime(ctx context.Context) error {
	return p.publish(ctx, domain.Effect{Kind: domain.EffectChime})
}

// Close closes the Redis connection.
func (p *RedisEffectPlayer) Close() error {
	return p.client.Close()
}

func (p *RedisEffectPlayer) publish(ctx context.Context, effect domain.Effect) error {
	data, err := json.Marshal(effect)
	if err != nil {
		return fmt.Errorf("failed to marshal effect: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s effect: %w", effect.Kind, err)
	}

	return nil
}

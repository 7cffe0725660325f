package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"arrival-alert/internal/features/trips/domain"

	"github.com/redis/go-redis/v9"
)

const tripLogKey = "trip_log"

// RedisTripRepository keeps the trip log in a capped redis list, newest
// first. Append pushes to the head and trims the tail in one transaction, so
// the log never exceeds the cap.
type RedisTripRepository struct {
	client *redis.Client
	max    int64
}

// NewRedisTripRepository creates a repository capped at max records.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisTripRepository(redisURL string, max int) (*RedisTripRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisTripRepository{
		client: redis.NewClient(opts),
		max:    int64(max),
	}, nil
}

// Append adds the record to the front of the log, evicting the oldest record
// beyond the cap.
func (r *RedisTripRepository) Append(ctx context.Context, record domain.TripRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal trip: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, tripLogKey, data)
	pipe.LTrim(ctx, tripLogKey, 0, r.max-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append trip: %w", err)
	}

	return nil
}

// List returns the log, most recent first.
func (r *RedisTripRepository) List(ctx context.Context) ([]domain.TripRecord, error) {
	raw, err := r.client.LRange(ctx, tripLogKey, 0, r.max-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trip log: %w", err)
	}

	records := make([]domain.TripRecord, 0, len(raw))
	for _, item := range raw {
		var record domain.TripRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trip: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Close closes the Redis connection.
func (r *RedisTripRepository) Close() error {
	return r.client.Close()
}

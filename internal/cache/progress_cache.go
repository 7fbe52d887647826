package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"conceptlab/internal/model"

	"github.com/redis/go-redis/v9"
)

// ProgressCache keeps the latest progress snapshot of each run for polling clients
type ProgressCache interface {
	Get(ctx context.Context, runID string) (*model.ProgressState, error)
	Set(ctx context.Context, state model.ProgressState) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new progress cache
func NewProgressCache(client *redis.Client, ttl time.Duration) ProgressCache {
	return &progressCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *progressCache) key(runID string) string {
	return fmt.Sprintf("run:%s:progress", runID)
}

func (c *progressCache) Get(ctx context.Context, runID string) (*model.ProgressState, error) {
	data, err := c.client.Get(ctx, c.key(runID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.ProgressState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *progressCache) Set(ctx context.Context, state model.ProgressState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(state.RunID), data, c.ttl).Err()
}

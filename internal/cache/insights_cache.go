package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"conceptlab/internal/model"

	"github.com/redis/go-redis/v9"
)

// InsightsCache holds the latest ConceptInsights per concept
type InsightsCache interface {
	Get(ctx context.Context, conceptID string) (*model.ConceptInsights, error)
	Set(ctx context.Context, insights *model.ConceptInsights) error
	Invalidate(ctx context.Context, conceptID string) error
}

type insightsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInsightsCache creates a new insights cache
func NewInsightsCache(client *redis.Client, ttl time.Duration) InsightsCache {
	return &insightsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *insightsCache) key(conceptID string) string {
	return fmt.Sprintf("concept:%s:insights", conceptID)
}

func (c *insightsCache) Get(ctx context.Context, conceptID string) (*model.ConceptInsights, error) {
	data, err := c.client.Get(ctx, c.key(conceptID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var insights model.ConceptInsights
	if err := json.Unmarshal([]byte(data), &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

func (c *insightsCache) Set(ctx context.Context, insights *model.ConceptInsights) error {
	data, err := json.Marshal(insights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(insights.ConceptID), data, c.ttl).Err()
}

func (c *insightsCache) Invalidate(ctx context.Context, conceptID string) error {
	return c.client.Del(ctx, c.key(conceptID)).Err()
}

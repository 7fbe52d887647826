package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const rankingKey = "concepts:ranking"

// RankingCache orders concepts by their overall insight score
type RankingCache interface {
	UpdateScore(ctx context.Context, conceptID string, score float64) error
	GetTop(ctx context.Context, limit int) ([]RankingEntry, error)
	GetRank(ctx context.Context, conceptID string) (int64, error)
}

// RankingEntry is one concept in the ranking
type RankingEntry struct {
	ConceptID string  `json:"conceptId"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}

type rankingCache struct {
	client *redis.Client
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(client *redis.Client) RankingCache {
	return &rankingCache{
		client: client,
	}
}

func (c *rankingCache) UpdateScore(ctx context.Context, conceptID string, score float64) error {
	return c.client.ZAdd(ctx, rankingKey, redis.Z{
		Score:  score,
		Member: conceptID,
	}).Err()
}

func (c *rankingCache) GetTop(ctx context.Context, limit int) ([]RankingEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, rankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = RankingEntry{
			ConceptID: member,
			Score:     z.Score,
			Rank:      i + 1,
		}
	}
	return entries, nil
}

// GetRank returns the 1-indexed rank, or -1 when the concept was never scored
func (c *rankingCache) GetRank(ctx context.Context, conceptID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, rankingKey, conceptID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err
}

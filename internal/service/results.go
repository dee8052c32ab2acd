package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plateful/souschef/internal/types"
	"github.com/redis/go-redis/v9"
)

// resultTTL bounds how long a pipeline result stays retrievable.
const resultTTL = 24 * time.Hour

// ResultCache stores pipeline results in Redis for later retrieval.
type ResultCache struct {
	redis *redis.Client
}

// NewResultCache creates a new ResultCache instance
func NewResultCache(redisClient *redis.Client) *ResultCache {
	return &ResultCache{redis: redisClient}
}

// SaveResult assigns the result an ID and persists it with a 24h TTL.
func (c *ResultCache) SaveResult(ctx context.Context, result *types.PipelineResult) error {
	result.ID = uuid.New().String()
	result.CreatedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	key := fmt.Sprintf("recipe:result:%s", result.ID)
	if err := c.redis.Set(ctx, key, data, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to save result to Redis: %w", err)
	}

	return nil
}

// GetResult retrieves a previously saved result by ID.
func (c *ResultCache) GetResult(ctx context.Context, id string) (*types.PipelineResult, error) {
	key := fmt.Sprintf("recipe:result:%s", id)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	var result types.PipelineResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

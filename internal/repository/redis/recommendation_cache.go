package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"commonAssessment/business/model"
	"commonAssessment/business/recommend"
	"commonAssessment/domain"
)

const defaultCacheTTL = 10 * time.Minute

// RecommendationCache keeps finished recommendations keyed by model, schema
// and feature vector.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ recommend.ResultCache  = (*RecommendationCache)(nil)
	_ model.CacheInvalidator = (*RecommendationCache)(nil)
)

func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RecommendationCache) Get(ctx context.Context, key string) (domain.RecommendationResult, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RecommendationResult{}, false, nil
		}
		return domain.RecommendationResult{}, false, fmt.Errorf("failed to get recommendation from Redis: %w", err)
	}

	res, err := decodeResult(val)
	if err != nil {
		return domain.RecommendationResult{}, false, err
	}
	return res, true, nil
}

func (r *RecommendationCache) Set(ctx context.Context, key string, res domain.RecommendationResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendation in Redis: %w", err)
	}
	return nil
}

// Invalidate drops every cached recommendation for a model. Called on model
// reload, where an artifact may be replaced under the same version.
func (r *RecommendationCache) Invalidate(ctx context.Context, modelName string) (int, error) {
	pattern := fmt.Sprintf("reco:%s:*", modelName)

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan recommendation keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete recommendation keys: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func decodeResult(raw []byte) (domain.RecommendationResult, error) {
	var res domain.RecommendationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("failed to unmarshal recommendation: %w", err)
	}
	return res, nil
}

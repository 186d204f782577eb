package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	CacheKeyPrefix = "webp_cache:"
	JobKeyPrefix   = "webp_job:"
)

func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	if !s.CacheEnabled() {
		return nil, ErrNotConfigured
	}

	data, err := s.redisClient.Get(ctx, CacheKeyPrefix+cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	if !s.CacheEnabled() {
		return ErrNotConfigured
	}
	return s.redisClient.Set(ctx, CacheKeyPrefix+cacheKey, data, s.cacheDuration).Err()
}

// SaveJob stores job under its id, replacing any earlier record.
func (s *StorageService) SaveJob(ctx context.Context, job *models.ConversionJob) error {
	if !s.CacheEnabled() {
		return ErrNotConfigured
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := s.redisClient.Set(ctx, JobKeyPrefix+job.ID, data, s.cacheDuration).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// GetJob returns nil, nil when no job with id is stored.
func (s *StorageService) GetJob(ctx context.Context, id string) (*models.ConversionJob, error) {
	if !s.CacheEnabled() {
		return nil, ErrNotConfigured
	}

	data, err := s.redisClient.Get(ctx, JobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job %s: %w", id, err)
	}

	var job models.ConversionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if !s.CacheEnabled() {
		return nil, ErrNotConfigured
	}

	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("cache stats error: %w", err)
	}

	stats := map[string]interface{}{
		"db_keys": dbSize,
	}

	// Not every redis-compatible server exposes the memory section.
	if info, err := s.redisClient.Info(ctx, "memory").Result(); err == nil {
		stats["info"] = info
	}

	return stats, nil
}

// PurgeCache removes every cached conversion and returns how many keys were
// deleted. Job records are kept.
func (s *StorageService) PurgeCache(ctx context.Context) (int64, error) {
	if !s.CacheEnabled() {
		return 0, ErrNotConfigured
	}

	var deleted int64
	iter := s.redisClient.Scan(ctx, 0, CacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.redisClient.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache purge error: %w", err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache purge error: %w", err)
	}

	return deleted, nil
}

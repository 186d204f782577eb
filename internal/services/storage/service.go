package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var ErrNotConfigured = errors.New("storage backend not configured")

// StorageService fronts the optional backends: a redis cache for conversion
// output and job records, and a Supabase bucket for archives and job files.
// Either client may be nil when its backend is not configured.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cfg.Storage.CacheDuration,
	}

	if s.cacheDuration <= 0 {
		s.cacheDuration = 24 * time.Hour
	}

	if cfg.Supabase.URL != "" {
		if cfg.Supabase.BUCKET == "" {
			return nil, fmt.Errorf("SUPABASE_BUCKET is required when SUPABASE_URL is set")
		}
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	return s, nil
}

func (s *StorageService) CacheEnabled() bool {
	return s != nil && s.redisClient != nil
}

func (s *StorageService) ObjectsEnabled() bool {
	return s != nil && s.sbClient != nil
}

func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}

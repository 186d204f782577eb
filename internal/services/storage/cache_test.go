package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackedService(t *testing.T) (*StorageService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Storage.CacheDuration = time.Hour

	s, err := NewStorageService(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, mr
}

func TestCacheRoundTrip(t *testing.T) {
	s, mr := newRedisBackedService(t)
	ctx := context.Background()

	data, err := s.GetFromCache(ctx, "abc:png:0")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.SetCache(ctx, "abc:png:0", []byte("encoded")))
	assert.True(t, mr.Exists(CacheKeyPrefix+"abc:png:0"))

	data, err = s.GetFromCache(ctx, "abc:png:0")
	require.NoError(t, err)
	assert.Equal(t, []byte("encoded"), data)

	mr.FastForward(2 * time.Hour)

	data, err = s.GetFromCache(ctx, "abc:png:0")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestJobRoundTrip(t *testing.T) {
	s, _ := newRedisBackedService(t)
	ctx := context.Background()

	missing, err := s.GetJob(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	job := models.NewConversionJob(models.FormatJPEG, 80)
	job.Inputs = []models.JobInput{{Filename: "a.webp", Key: "uploads/a_1_abcdef12.webp"}}
	require.NoError(t, s.SaveJob(ctx, job))

	job.SetStatus(models.StatusCompleted)
	job.Results = []models.JobResult{{OriginalName: "a.webp", URL: "https://cdn/a.jpeg", Format: models.FormatJPEG, Size: 10}}
	require.NoError(t, s.SaveJob(ctx, job))

	loaded, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, models.StatusCompleted, loaded.Status)
	assert.Equal(t, job.Inputs, loaded.Inputs)
	assert.Equal(t, job.Results, loaded.Results)
}

func TestCacheStats(t *testing.T) {
	s, _ := newRedisBackedService(t)
	ctx := context.Background()

	require.NoError(t, s.SetCache(ctx, "k", []byte("v")))

	stats, err := s.GetCacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["db_keys"])
}

func TestUnconfiguredBackends(t *testing.T) {
	s, err := NewStorageService(&config.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, s.CacheEnabled())
	assert.False(t, s.ObjectsEnabled())

	_, err = s.GetFromCache(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.SetCache(ctx, "k", nil), ErrNotConfigured)
	_, err = s.Upload(ctx, []byte("zip"), "archives", "converted_images.zip")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = s.Download(ctx, "archives/x.zip")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.UploadMultiple(ctx, "uploads", []models.UploadedFile{{Filename: "a.webp", Data: []byte("a")}})
	assert.ErrorContains(t, err, "failed to upload 1 files")

	assert.Equal(t, map[string]string{
		"redis":    "not configured",
		"supabase": "not configured",
	}, s.HealthCheck(ctx))
}

func TestSupabaseRequiresBucket(t *testing.T) {
	cfg := &config.Config{}
	cfg.Supabase.URL = "https://project.supabase.co"

	_, err := NewStorageService(cfg)
	assert.Error(t, err)
}

func TestHealthCheckReportsRedis(t *testing.T) {
	s, mr := newRedisBackedService(t)

	assert.Equal(t, "healthy", s.HealthCheck(context.Background())["redis"])

	mr.Close()
	assert.Contains(t, s.HealthCheck(context.Background())["redis"], "unhealthy")
}

func TestPurgeCacheKeepsJobs(t *testing.T) {
	s, mr := newRedisBackedService(t)
	ctx := context.Background()

	require.NoError(t, s.SetCache(ctx, "a:png:0", []byte("a")))
	require.NoError(t, s.SetCache(ctx, "b:jpeg:90", []byte("b")))
	require.NoError(t, s.SaveJob(ctx, models.NewConversionJob(models.FormatPNG, 90)))

	deleted, err := s.PurgeCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.False(t, mr.Exists(CacheKeyPrefix+"a:png:0"))
	assert.Len(t, mr.Keys(), 1)
}

func TestPurgeCacheWithoutRedis(t *testing.T) {
	s, err := NewStorageService(&config.Config{})
	require.NoError(t, err)

	_, err = s.PurgeCache(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

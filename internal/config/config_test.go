package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CONVERT_WORKERS", "MAX_UPLOAD_SIZE", "ZIP_COMPRESSION_LEVEL",
		"REDIS_ADDR", "SUPABASE_URL", "RABBITMQ_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 1, cfg.Conversion.Workers)
	assert.Equal(t, int64(25*1024*1024), cfg.Conversion.MaxUploadSize)
	assert.Equal(t, int64(50*1024*1024), cfg.Conversion.MaxArchiveBodySize)
	assert.Equal(t, 6, cfg.Conversion.CompressionLevel)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Supabase.URL)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "webp_conversion", cfg.RabbitMQ.QueueName)
	assert.Equal(t, 24*time.Hour, cfg.Storage.CacheDuration)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONVERT_WORKERS", "4")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_ADDR", "localhost:6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Conversion.Workers)
	assert.Equal(t, int64(1024), cfg.Conversion.MaxFileSize)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CONVERT_WORKERS", "-3")
	t.Setenv("ZIP_COMPRESSION_LEVEL", "lots")
	t.Setenv("WRITE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Conversion.Workers)
	assert.Equal(t, 6, cfg.Conversion.CompressionLevel)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
}

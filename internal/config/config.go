package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Conversion ConversionConfig
	Supabase   SupabaseConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	Storage    StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type ConversionConfig struct {
	Workers            int
	MaxFileSize        int64
	MaxUploadSize      int64
	MaxArchiveBodySize int64
	CompressionLevel   int
}

type SupabaseConfig struct {
	URL    string
	KEY    string
	BUCKET string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL       string
	QueueName string
	Workers   int
}

type StorageConfig struct {
	CacheDuration time.Duration
	ArchivePrefix string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Mode:           getEnv("GIN_MODE", "release"),
			ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDuration("WRITE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Conversion: ConversionConfig{
			Workers:            getEnvAsInt("CONVERT_WORKERS", 1),
			MaxFileSize:        getEnvAsInt64("MAX_FILE_SIZE", 25*1024*1024),         // 25MB
			MaxUploadSize:      getEnvAsInt64("MAX_UPLOAD_SIZE", 25*1024*1024),       // 25MB
			MaxArchiveBodySize: getEnvAsInt64("MAX_ARCHIVE_BODY_SIZE", 50*1024*1024), // 50MB
			CompressionLevel:   getEnvAsInt("ZIP_COMPRESSION_LEVEL", 6),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:       getEnv("RABBITMQ_URL", ""),
			QueueName: getEnv("RABBITMQ_QUEUE", "webp_conversion"),
			Workers:   getEnvAsInt("QUEUE_WORKERS", 2),
		},
		Storage: StorageConfig{
			CacheDuration: getDuration("CACHE_DURATION", 24*time.Hour),
			ArchivePrefix: getEnv("ARCHIVE_PREFIX", "archives"),
		},
	}

	if cfg.Conversion.Workers < 1 {
		cfg.Conversion.Workers = 1
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

package storage

import (
	"context"

	storage_go "github.com/supabase-community/storage-go"
)

const statusNotConfigured = "not configured"

// HealthCheck checks Redis + Supabase
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{
		"redis":    statusNotConfigured,
		"supabase": statusNotConfigured,
	}

	if s == nil {
		return status
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = "unhealthy: " + err.Error()
		} else {
			status["redis"] = "healthy"
		}
	}

	if s.sbClient != nil {
		if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
			status["supabase"] = "unhealthy: " + err.Error()
		} else {
			status["supabase"] = "healthy"
		}
	}

	return status
}

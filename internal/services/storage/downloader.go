package storage

import (
	"context"
	"fmt"
)

func (s *StorageService) Download(ctx context.Context, key string) ([]byte, error) {
	if !s.ObjectsEnabled() {
		return nil, ErrNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.sbClient.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	return data, nil
}

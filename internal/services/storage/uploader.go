package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/pkg/utils"
)

// Upload stores data under a generated key below prefix and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, data []byte, prefix, filename string) (*models.StoredObject, error) {
	if !s.ObjectsEnabled() {
		return nil, ErrNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := utils.GenerateStorageKey(prefix, filename)

	if _, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return &models.StoredObject{
		Name: filename,
		Key:  key,
		URL:  publicURL.SignedURL,
		Size: int64(len(data)),
	}, nil
}

// Delete removes objects from Supabase Storage
func (s *StorageService) Delete(ctx context.Context, keys ...string) error {
	if !s.ObjectsEnabled() {
		return ErrNotConfigured
	}

	if len(keys) == 0 {
		return nil
	}

	_, err := s.sbClient.RemoveFile(s.bucket, keys)
	return err
}

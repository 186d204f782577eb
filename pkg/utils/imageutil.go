package utils

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DetectImageType sniffs the MIME type of raw image bytes.
func DetectImageType(data []byte) string {
	return http.DetectContentType(data)
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/bmp",
		"image/tiff",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

// GenerateStorageKey builds a collision-free object key under prefix.
func GenerateStorageKey(prefix, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}

	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		name = "file"
	}

	timestamp := time.Now().Unix()
	id := uuid.New().String()[:8]

	key := fmt.Sprintf("%s_%d_%s%s", name, timestamp, id, ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

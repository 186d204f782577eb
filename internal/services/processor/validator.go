package processor

import (
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/pkg/utils"
)

func (c *Converter) validateFile(file models.UploadedFile) error {
	if len(file.Data) == 0 {
		return fmt.Errorf("file %q is empty", file.Filename)
	}

	if c.maxFileSize > 0 && int64(len(file.Data)) > c.maxFileSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", len(file.Data), c.maxFileSize)
	}

	if contentType := utils.DetectImageType(file.Data); !utils.IsValidImageType(contentType) {
		return fmt.Errorf("file %q is not an image: %s", file.Filename, contentType)
	}

	return nil
}

func validateRequest(req *models.ConversionRequest) error {
	if req == nil || len(req.Files) == 0 {
		return ErrNoFiles
	}

	if !req.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, req.Format)
	}

	return nil
}

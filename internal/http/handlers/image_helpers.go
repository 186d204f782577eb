package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
	"go.uber.org/zap"
)

var errNoFilesInForm = errors.New("no files in form")

// === REQUEST PARSING ===

// parseConversionRequest validates the form and reads the uploads. On failure
// it has already written the error response.
func (h *ImageHandler) parseConversionRequest(c *gin.Context) (*models.ConversionRequest, bool) {
	headers, err := h.parseMultipartFiles(c)
	if err != nil {
		if isBodyTooLarge(err) {
			h.respondError(c, http.StatusRequestEntityTooLarge, msgUploadTooLarge)
			return nil, false
		}
		h.respondError(c, http.StatusBadRequest, msgNoFiles)
		return nil, false
	}

	format, ok := models.ParseFormat(c.PostForm(formatParamKey))
	if !ok {
		h.respondError(c, http.StatusBadRequest, msgInvalidFormat)
		return nil, false
	}

	return &models.ConversionRequest{
		Files:   h.readFiles(headers),
		Format:  format,
		Quality: h.parseQuality(c.PostForm(qualityParamKey)),
	}, true
}

func (h *ImageHandler) parseMultipartFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("failed to parse form data: %w", err)
	}

	files := c.Request.MultipartForm.File[filesParamKey]
	if len(files) == 0 {
		return nil, errNoFilesInForm
	}

	return files, nil
}

func (h *ImageHandler) parseQuality(value string) int {
	if value == "" {
		return models.DefaultQuality
	}

	quality, err := strconv.Atoi(value)
	if err != nil {
		return models.DefaultQuality
	}

	return models.NormalizeQuality(quality)
}

// === FILE OPERATIONS ===

// readFiles loads every upload into memory. A file that cannot be read is
// logged and left out, like any other per-file failure.
func (h *ImageHandler) readFiles(headers []*multipart.FileHeader) []models.UploadedFile {
	files := make([]models.UploadedFile, 0, len(headers))

	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			h.logger.Warn("Failed to read uploaded file", zap.String("file", fh.Filename), zap.Error(err))
			continue
		}
		files = append(files, models.UploadedFile{Filename: fh.Filename, Data: data})
	}

	return files
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

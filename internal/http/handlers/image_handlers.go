package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/internal/services/archive"
	"github.com/phambaophuc/webp-converter/internal/services/processor"
	"github.com/phambaophuc/webp-converter/internal/services/queue"
	"github.com/phambaophuc/webp-converter/internal/services/storage"
	"go.uber.org/zap"
)

const (
	filesParamKey   = "files"
	formatParamKey  = "format"
	qualityParamKey = "quality"
	multipartMemory = 32 << 20
)

const (
	msgNoFiles           = "No files uploaded"
	msgInvalidFormat     = "Invalid format requested"
	msgUploadTooLarge    = "Upload exceeds the maximum allowed size"
	msgConvertFailed     = "Failed to convert images"
	msgNoImages          = "No images provided"
	msgZipFailed         = "Failed to create ZIP file"
	msgStorageDisabled   = "Archive storage is not configured"
	msgQueueDisabled     = "Background conversion is not configured"
	msgJobNotFound       = "Job not found"
	msgJobLookupFailed   = "Failed to load job"
	msgJobSubmitFailed   = "Failed to queue conversion job"
	msgArchiveShareError = "Failed to store ZIP file"
)

// ImageHandler serves the conversion and archive endpoints. storage and queue
// are optional and may be nil.
type ImageHandler struct {
	converter *processor.Converter
	archiver  *archive.Builder
	storage   *storage.StorageService
	queue     *queue.QueueService
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	converter *processor.Converter,
	archiver *archive.Builder,
	storage *storage.StorageService,
	queue *queue.QueueService,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		converter: converter,
		archiver:  archiver,
		storage:   storage,
		queue:     queue,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// ConvertImages converts every uploaded file and returns the results as data URIs.
func (h *ImageHandler) ConvertImages(c *gin.Context) {
	req, ok := h.parseConversionRequest(c)
	if !ok {
		return
	}

	if len(req.Files) == 0 {
		c.JSON(http.StatusOK, models.ConvertResponse{
			Success:         true,
			ConvertedImages: []models.ConvertedImage{},
		})
		return
	}

	images, err := h.converter.ConvertBatch(c.Request.Context(), req)
	if err != nil {
		h.respondConversionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConvertResponse{
		Success:         true,
		ConvertedImages: images,
	})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())
	services["rabbitmq"] = h.queue.HealthCheck()

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *ImageHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now(),
	}

	if h.storage.CacheEnabled() {
		cacheStats, err := h.storage.GetCacheStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get cache stats", zap.Error(err))
		} else {
			stats["cache"] = cacheStats
		}
	}

	if h.queue != nil {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Error("Failed to get queue stats", zap.Error(err))
		} else {
			stats["queue"] = queueStats
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}

func (h *ImageHandler) respondConversionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrNoFiles):
		h.respondError(c, http.StatusBadRequest, msgNoFiles)
	case errors.Is(err, processor.ErrInvalidFormat):
		h.respondError(c, http.StatusBadRequest, msgInvalidFormat)
	default:
		h.logger.Error("Server error during conversion", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, msgConvertFailed)
	}
}

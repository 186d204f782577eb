package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
	"go.uber.org/zap"
)

// ConvertImagesAsync stores the uploads and queues them for a background worker.
func (h *ImageHandler) ConvertImagesAsync(c *gin.Context) {
	if h.queue == nil || !h.storage.ObjectsEnabled() || !h.storage.CacheEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, msgQueueDisabled)
		return
	}

	req, ok := h.parseConversionRequest(c)
	if !ok {
		return
	}

	if len(req.Files) == 0 {
		h.respondError(c, http.StatusBadRequest, msgNoFiles)
		return
	}

	job, err := h.queue.Submit(c.Request.Context(), req.Files, req.Format, req.Quality)
	if err != nil {
		h.logger.Error("Failed to submit job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, msgJobSubmitFailed)
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *ImageHandler) GetJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, msgQueueDisabled)
		return
	}

	job, err := h.queue.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load job", zap.String("job_id", c.Param("id")), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, msgJobLookupFailed)
		return
	}

	if job == nil {
		h.respondError(c, http.StatusNotFound, msgJobNotFound)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/internal/services/archive"
	"go.uber.org/zap"
)

// DownloadZip packs previously converted images into converted_images.zip.
func (h *ImageHandler) DownloadZip(c *gin.Context) {
	req, ok := h.parseArchiveRequest(c)
	if !ok {
		return
	}

	buffer, _, err := h.archiver.Build(req.Images)
	if err != nil {
		h.respondArchiveError(c, err)
		return
	}

	c.Header("Content-Disposition", archive.ContentDisposition)
	c.Data(http.StatusOK, archive.ContentType, buffer.Bytes())
}

// ShareZip builds the same archive as DownloadZip and stores it, returning a public URL.
func (h *ImageHandler) ShareZip(c *gin.Context) {
	if !h.storage.ObjectsEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, msgStorageDisabled)
		return
	}

	req, ok := h.parseArchiveRequest(c)
	if !ok {
		return
	}

	buffer, stats, err := h.archiver.Build(req.Images)
	if err != nil {
		h.respondArchiveError(c, err)
		return
	}

	obj, err := h.storage.Upload(c.Request.Context(), buffer.Bytes(), h.config.Storage.ArchivePrefix, archive.Filename)
	if err != nil {
		h.logger.Error("Failed to upload archive", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, msgArchiveShareError)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.SharedArchive{
			URL:     obj.URL,
			Key:     obj.Key,
			Size:    obj.Size,
			Entries: stats.Entries,
		},
	})
}

func (h *ImageHandler) parseArchiveRequest(c *gin.Context) (*models.ArchiveRequest, bool) {
	var req models.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			h.respondError(c, http.StatusRequestEntityTooLarge, msgUploadTooLarge)
			return nil, false
		}
		h.logger.Warn("Invalid archive request", zap.Error(err))
		h.respondError(c, http.StatusBadRequest, msgNoImages)
		return nil, false
	}

	if len(req.Images) == 0 {
		h.respondError(c, http.StatusBadRequest, msgNoImages)
		return nil, false
	}

	return &req, true
}

func (h *ImageHandler) respondArchiveError(c *gin.Context, err error) {
	if errors.Is(err, archive.ErrNoImages) {
		h.respondError(c, http.StatusBadRequest, msgNoImages)
		return
	}

	h.logger.Error("Server error creating ZIP", zap.Error(err))
	h.respondError(c, http.StatusInternalServerError, msgZipFailed)
}

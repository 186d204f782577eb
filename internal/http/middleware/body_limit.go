package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
)

// BodyLimit caps the request body at maxBytes. Requests that declare a larger
// Content-Length are rejected up front; others fail when the handler reads past the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if maxBytes <= 0 {
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength > maxBytes {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.APIResponse{
				Success: false,
				Error:   "Upload exceeds the maximum allowed size",
			})
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		ctx.Next()
	}
}

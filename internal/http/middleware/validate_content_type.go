package middleware

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
)

// ValidateContentType rejects requests whose declared media type is not
// expected. Requests with no Content-Type are left for the handler to judge.
func ValidateContentType(expected string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		contentType := ctx.GetHeader("Content-Type")
		if contentType == "" {
			ctx.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != expected {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   "Content-Type must be " + expected,
			})
			return
		}

		ctx.Next()
	}
}

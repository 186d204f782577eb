package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/models"
	"go.uber.org/zap"
)

// ErrorHandler handles panics and errors
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("method", ctx.Request.Method),
		)

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "Internal server error",
		})
	})
}

package middleware

import (
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Logger(logger *zap.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(params gin.LogFormatterParams) string {
		bodySize := params.BodySize
		if bodySize < 0 {
			bodySize = 0
		}

		fields := []zap.Field{
			zap.String("method", params.Method),
			zap.String("path", params.Path),
			zap.Int("status", params.StatusCode),
			zap.Duration("latency", params.Latency),
			zap.String("response_size", humanize.Bytes(uint64(bodySize))),
			zap.String("client_ip", params.ClientIP),
			zap.String("user_agent", params.Request.UserAgent()),
		}
		if params.ErrorMessage != "" {
			fields = append(fields, zap.String("error", params.ErrorMessage))
		}

		if params.StatusCode >= 500 {
			logger.Error("HTTP Request", fields...)
		} else {
			logger.Info("HTTP Request", fields...)
		}
		return ""
	})
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/phambaophuc/webp-converter/internal/http/handlers"
	"github.com/phambaophuc/webp-converter/internal/http/middleware"
	"go.uber.org/zap"
)

const jsonContentType = "application/json"

type Router struct {
	imageHandler *handlers.ImageHandler
	config       *config.Config
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		config:       config,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.Server.Mode != "" {
		gin.SetMode(r.config.Server.Mode)
	}

	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.config.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	uploadLimit := middleware.BodyLimit(r.config.Conversion.MaxUploadSize)
	archiveLimit := middleware.BodyLimit(r.config.Conversion.MaxArchiveBodySize)
	jsonOnly := middleware.ValidateContentType(jsonContentType)

	// Paths used by the browser client
	api := router.Group("/api")
	{
		api.POST("/convert", uploadLimit, r.imageHandler.ConvertImages)
		api.POST("/download-zip", archiveLimit, jsonOnly, r.imageHandler.DownloadZip)
	}

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/stats", r.imageHandler.GetStats)

		images := v1.Group("/images")
		{
			images.POST("/convert", uploadLimit, r.imageHandler.ConvertImages)
			images.POST("/convert/async", uploadLimit, r.imageHandler.ConvertImagesAsync)
			images.POST("/archive", archiveLimit, jsonOnly, r.imageHandler.DownloadZip)
			images.POST("/archive/share", archiveLimit, jsonOnly, r.imageHandler.ShareZip)
		}

		v1.GET("/jobs/:id", r.imageHandler.GetJob)
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "WebP converter is running",
		})
	})

	return router
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/phambaophuc/webp-converter/internal/http/handlers"
	"github.com/phambaophuc/webp-converter/internal/http/routes"
	"github.com/phambaophuc/webp-converter/internal/services/archive"
	"github.com/phambaophuc/webp-converter/internal/services/processor"
	"github.com/phambaophuc/webp-converter/internal/services/queue"
	"github.com/phambaophuc/webp-converter/internal/services/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func ServeAppCommand() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the conversion API over HTTP",
		Example: "webpconv serve --port 8888",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(port)
		},
	}

	command.Flags().StringVar(&port, "port", "", "Port on which to start the server (overrides PORT)")

	return command
}

func runServer(port string) error {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	// Initialize services
	store, err := storage.NewStorageService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage service: %w", err)
	}
	defer store.Close()

	opts := processor.Options{
		Workers:     cfg.Conversion.Workers,
		MaxFileSize: cfg.Conversion.MaxFileSize,
	}
	if store.CacheEnabled() {
		opts.Cache = store
	}
	converter := processor.NewConverter(logger, opts)
	archiver := archive.NewBuilder(logger, cfg.Conversion.CompressionLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := startQueue(ctx, cfg, converter, store, logger)
	if jobs != nil {
		defer jobs.Close()
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(converter, archiver, store, jobs, logger, cfg)

	router := routes.NewRouter(imageHandler, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}

// startQueue connects to RabbitMQ and starts the background workers. The
// server keeps running without async jobs when the broker or the backing
// stores are unavailable.
func startQueue(
	ctx context.Context,
	cfg *config.Config,
	converter *processor.Converter,
	store *storage.StorageService,
	logger *zap.Logger,
) *queue.QueueService {
	if cfg.RabbitMQ.URL == "" {
		return nil
	}

	if !store.CacheEnabled() || !store.ObjectsEnabled() {
		logger.Warn("Queue service requires Redis and Supabase storage, async jobs disabled")
		return nil
	}

	jobs, err := queue.NewQueueService(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.Workers,
		converter,
		store,
		logger,
	)
	if err != nil {
		// Continue without queue service for basic functionality
		logger.Warn("Failed to initialize queue service", zap.Error(err))
		return nil
	}

	for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
		if err := jobs.StartWorker(ctx, i); err != nil {
			logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
		}
	}

	return jobs
}

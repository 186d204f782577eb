package processor

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrNoFiles       = errors.New("no files uploaded")
	ErrInvalidFormat = errors.New("invalid format requested")
)

// Cache stores encoded conversion output. GetFromCache returns nil, nil on a miss.
type Cache interface {
	GetFromCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte) error
}

type Options struct {
	Workers     int
	MaxFileSize int64
	Cache       Cache
}

type decodeFunc func(io.Reader) (image.Image, error)

// Converter turns uploaded images into JPEG or PNG data URIs. It holds no
// per-request state and is safe for concurrent use.
type Converter struct {
	logger      *zap.Logger
	workers     int
	maxFileSize int64
	cache       Cache
	decode      decodeFunc
}

func NewConverter(logger *zap.Logger, opts Options) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Converter{
		logger:      logger,
		workers:     workers,
		maxFileSize: opts.MaxFileSize,
		cache:       opts.Cache,
		decode:      decodeImage,
	}
}

// ConvertBatch converts every file in req. A file that fails to decode or
// encode is logged and left out; it never fails the batch. Results keep the
// relative order of the inputs that succeeded.
func (c *Converter) ConvertBatch(ctx context.Context, req *models.ConversionRequest) ([]models.ConvertedImage, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	quality := models.NormalizeQuality(req.Quality)
	results := make([]*models.ConvertedImage, len(req.Files))
	jobs := make(chan int, len(req.Files))

	numWorkers := c.workers
	if len(req.Files) < numWorkers {
		numWorkers = len(req.Files)
	}

	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.convertJob(ctx, req.Files[i], req.Format, quality)
			}
		}()
	}

	for i := range req.Files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	converted := make([]models.ConvertedImage, 0, len(results))
	for _, result := range results {
		if result != nil {
			converted = append(converted, *result)
		}
	}

	c.logger.Info("Batch converted",
		zap.Int("requested", len(req.Files)),
		zap.Int("converted", len(converted)),
		zap.String("format", string(req.Format)),
		zap.Int("quality", quality),
	)

	return converted, nil
}

// Convert converts a single file. Panics raised by the codec are returned as errors.
func (c *Converter) Convert(ctx context.Context, file models.UploadedFile, format models.Format, quality int) (result models.ConvertedImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("codec panic on %q: %v", file.Filename, r)
		}
	}()

	if !format.Valid() {
		return models.ConvertedImage{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	if err := c.validateFile(file); err != nil {
		return models.ConvertedImage{}, err
	}

	quality = models.NormalizeQuality(quality)

	output, err := c.encodeWithCache(ctx, file, format, quality)
	if err != nil {
		return models.ConvertedImage{}, err
	}

	c.logger.Debug("Image converted",
		zap.String("file", file.Filename),
		zap.String("input_type", utils.DetectImageType(file.Data)),
		zap.String("input_size", humanize.Bytes(uint64(len(file.Data)))),
		zap.String("output_size", humanize.Bytes(uint64(len(output)))),
	)

	return models.ConvertedImage{
		ID:           uuid.New().String(),
		OriginalName: file.Filename,
		ConvertedURL: utils.EncodeDataURI(output, format.MimeType()),
		Format:       format,
		Size:         int64(len(output)),
	}, nil
}

func (c *Converter) convertJob(ctx context.Context, file models.UploadedFile, format models.Format, quality int) *models.ConvertedImage {
	if err := ctx.Err(); err != nil {
		c.logger.Warn("Skipping file, request cancelled", zap.String("file", file.Filename), zap.Error(err))
		return nil
	}

	result, err := c.Convert(ctx, file, format, quality)
	if err != nil {
		c.logger.Warn("Error processing file", zap.String("file", file.Filename), zap.Error(err))
		return nil
	}

	return &result
}

func (c *Converter) encodeWithCache(ctx context.Context, file models.UploadedFile, format models.Format, quality int) ([]byte, error) {
	if c.cache == nil {
		return transcode(c.decode, file.Data, format, quality)
	}

	key := conversionCacheKey(file.Data, format, quality)

	cached, err := c.cache.GetFromCache(ctx, key)
	if err != nil {
		c.logger.Warn("Cache lookup failed", zap.String("cache_key", key), zap.Error(err))
	} else if cached != nil {
		c.logger.Debug("Cache hit", zap.String("cache_key", key))
		return cached, nil
	}

	output, err := transcode(c.decode, file.Data, format, quality)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetCache(ctx, key, output); err != nil {
		c.logger.Warn("Failed to cache data", zap.String("cache_key", key), zap.Error(err))
	}

	return output, nil
}

// conversionCacheKey hashes the input bytes with the encode parameters. PNG
// ignores quality, so it is left out of PNG keys.
func conversionCacheKey(data []byte, format models.Format, quality int) string {
	if format == models.FormatPNG {
		quality = 0
	}
	return fmt.Sprintf("%x:%s:%d", sha256.Sum256(data), format, quality)
}

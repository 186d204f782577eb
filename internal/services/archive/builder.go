package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultCompressionLevel = 6
	ContentType             = "application/zip"
	Filename                = "converted_images.zip"
)

var ErrNoImages = errors.New("no images provided")

// ContentDisposition is the fixed attachment header sent with every archive.
var ContentDisposition = "attachment; filename=" + Filename

type Stats struct {
	Entries int
	Skipped int
	Size    int64
}

// Builder packs converted images into a DEFLATE-compressed ZIP archive.
type Builder struct {
	logger *zap.Logger
	level  int
	now    func() time.Time
}

// NewBuilder returns a Builder compressing at level, falling back to
// DefaultCompressionLevel when level is outside the flate range.
func NewBuilder(logger *zap.Logger, level int) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}

	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = DefaultCompressionLevel
	}

	return &Builder{
		logger: logger,
		level:  level,
		now:    time.Now,
	}
}

// Build decodes each image's data URI and writes it as an archive entry.
// Entries that cannot be decoded are logged and skipped.
func (b *Builder) Build(images []models.ConvertedImage) (*bytes.Buffer, Stats, error) {
	if len(images) == 0 {
		return nil, Stats{}, ErrNoImages
	}

	buffer := &bytes.Buffer{}
	stats, err := b.WriteArchive(buffer, images)
	if err != nil {
		return nil, stats, err
	}

	stats.Size = int64(buffer.Len())

	b.logger.Info("Archive built",
		zap.Int("entries", stats.Entries),
		zap.Int("skipped", stats.Skipped),
		zap.String("size", humanize.Bytes(uint64(stats.Size))),
	)

	return buffer, stats, nil
}

// WriteArchive streams the archive to w. Stats.Size is left at zero.
func (b *Builder) WriteArchive(w io.Writer, images []models.ConvertedImage) (Stats, error) {
	var stats Stats

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, b.level)
	})

	entries, skipped := b.Entries(images)
	stats.Skipped = skipped
	modified := b.now()

	for _, entry := range entries {
		if err := b.writeEntry(zw, entry.Name, entry.Data, modified); err != nil {
			zw.Close()
			return stats, fmt.Errorf("failed to write entry %q: %w", entry.Name, err)
		}
		stats.Entries++
	}

	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return stats, nil
}

// Entry is a decoded image ready to be written under Name.
type Entry struct {
	Name string
	Data []byte
}

// Entries decodes images into uniquely named entries, in input order. It
// returns the number of images that were skipped.
func (b *Builder) Entries(images []models.ConvertedImage) ([]Entry, int) {
	entries := make([]Entry, 0, len(images))
	names := make(nameSet, len(images))
	skipped := 0

	for _, img := range images {
		data, format, err := entryPayload(img)
		if err != nil {
			b.logger.Warn("Error processing image for ZIP",
				zap.String("original_name", img.OriginalName),
				zap.Error(err),
			)
			skipped++
			continue
		}

		entries = append(entries, Entry{
			Name: names.unique(EntryName(img.OriginalName, format)),
			Data: data,
		})
	}

	return entries, skipped
}

func (b *Builder) writeEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}

	_, err = entry.Write(data)
	return err
}

// entryPayload returns the decoded bytes of img and the format that names its
// entry: the declared format when valid, otherwise the data URI's media type.
func entryPayload(img models.ConvertedImage) ([]byte, models.Format, error) {
	data, mimeType, err := utils.DecodeDataURI(img.ConvertedURL)
	if err != nil {
		return nil, "", err
	}

	if img.Format.Valid() {
		return data, img.Format, nil
	}

	if format, ok := models.FormatFromMimeType(mimeType); ok {
		return data, format, nil
	}

	return nil, "", fmt.Errorf("unsupported format %q with media type %q", img.Format, mimeType)
}

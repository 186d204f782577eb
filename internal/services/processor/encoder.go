package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/webp-converter/internal/models"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

func decodeImage(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// encodeImage encodes image to specified format
func encodeImage(w io.Writer, img image.Image, format models.Format, quality int) error {
	switch format {
	case models.FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case models.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// Transcode decodes data in any registered format and re-encodes it as format.
func Transcode(data []byte, format models.Format, quality int) ([]byte, error) {
	return transcode(decodeImage, data, format, quality)
}

func transcode(decode decodeFunc, data []byte, format models.Format, quality int) ([]byte, error) {
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buffer := bytes.NewBuffer(make([]byte, 0, len(data)))
	if err := encodeImage(buffer, img, format, models.NormalizeQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buffer.Bytes(), nil
}

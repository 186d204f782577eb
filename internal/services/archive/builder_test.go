package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEntryName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		format   models.Format
		want     string
	}{
		{"webp to png", "photo.webp", models.FormatPNG, "photo.png"},
		{"webp to jpeg", "photo.webp", models.FormatJPEG, "photo.jpeg"},
		{"uppercase extension", "PHOTO.WEBP", models.FormatPNG, "PHOTO.png"},
		{"only trailing extension", "my.webp.holiday.webp", models.FormatPNG, "my.webp.holiday.png"},
		{"webp not trailing", "my.webp.backup", models.FormatJPEG, "my.webp.backup.jpeg"},
		{"other extension kept", "scan.png", models.FormatJPEG, "scan.png.jpeg"},
		{"no extension", "scan", models.FormatPNG, "scan.png"},
		{"directories stripped", "../../etc/photo.webp", models.FormatPNG, "photo.png"},
		{"windows directories stripped", `C:\Users\me\photo.webp`, models.FormatPNG, "photo.png"},
		{"bare extension", ".webp", models.FormatPNG, "image.png"},
		{"empty name", "", models.FormatJPEG, "image.jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntryName(tt.original, tt.format))
		})
	}
}

func TestNameSetUnique(t *testing.T) {
	names := make(nameSet)
	assert.Equal(t, "a.png", names.unique("a.png"))
	assert.Equal(t, "a-1.png", names.unique("a.png"))
	assert.Equal(t, "a-2.png", names.unique("a.png"))
	assert.Equal(t, "b.png", names.unique("b.png"))
}

func convertedImage(name string, format models.Format, payload []byte) models.ConvertedImage {
	return models.ConvertedImage{
		ID:           name,
		OriginalName: name,
		ConvertedURL: utils.EncodeDataURI(payload, format.MimeType()),
		Format:       format,
		Size:         int64(len(payload)),
	}
}

func readArchive(t *testing.T, buffer *bytes.Buffer) map[string][]byte {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(buffer.Bytes()), int64(buffer.Len()))
	require.NoError(t, err)

	entries := make(map[string][]byte)
	for _, f := range reader.File {
		assert.Equal(t, zip.Deflate, f.Method)

		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		entries[f.Name] = data
	}
	return entries
}

func TestBuildArchive(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	first := bytes.Repeat([]byte("png-bytes"), 100)
	second := []byte("jpeg-bytes")

	buffer, stats, err := builder.Build([]models.ConvertedImage{
		convertedImage("one.webp", models.FormatPNG, first),
		convertedImage("two.webp", models.FormatJPEG, second),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, int64(buffer.Len()), stats.Size)

	entries := readArchive(t, buffer)
	assert.Equal(t, map[string][]byte{
		"one.png":  first,
		"two.jpeg": second,
	}, entries)
}

func TestBuildSkipsMalformedEntries(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	broken := convertedImage("broken.webp", models.FormatPNG, []byte("x"))
	broken.ConvertedURL = "data:image/png;base64"

	unsupported := convertedImage("weird.webp", "gif", []byte("gif"))
	unsupported.ConvertedURL = utils.EncodeDataURI([]byte("gif"), "image/gif")

	buffer, stats, err := builder.Build([]models.ConvertedImage{
		broken,
		convertedImage("ok.webp", models.FormatPNG, []byte("ok")),
		unsupported,
		{OriginalName: "missing.webp", Format: models.FormatPNG},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 3, stats.Skipped)

	entries := readArchive(t, buffer)
	assert.Equal(t, map[string][]byte{"ok.png": []byte("ok")}, entries)
}

func TestBuildAllEntriesFailingYieldsEmptyArchive(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	buffer, stats, err := builder.Build([]models.ConvertedImage{
		{OriginalName: "a.webp", ConvertedURL: "not a data uri", Format: models.FormatPNG},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
	assert.Empty(t, readArchive(t, buffer))
}

func TestBuildFallsBackToMediaType(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	img := convertedImage("photo.webp", models.FormatJPEG, []byte("jpeg"))
	img.Format = ""

	buffer, _, err := builder.Build([]models.ConvertedImage{img})
	require.NoError(t, err)

	entries := readArchive(t, buffer)
	assert.Contains(t, entries, "photo.jpeg")
}

func TestBuildDeduplicatesNames(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	buffer, stats, err := builder.Build([]models.ConvertedImage{
		convertedImage("photo.webp", models.FormatPNG, []byte("1")),
		convertedImage("dir/photo.webp", models.FormatPNG, []byte("2")),
		convertedImage("photo.webp", models.FormatPNG, []byte("3")),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)

	entries := readArchive(t, buffer)
	assert.Equal(t, map[string][]byte{
		"photo.png":   []byte("1"),
		"photo-1.png": []byte("2"),
		"photo-2.png": []byte("3"),
	}, entries)
}

func TestBuildRejectsEmptyList(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)

	_, _, err := builder.Build(nil)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestBuildStampsModifiedTime(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), DefaultCompressionLevel)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return fixed }

	buffer, _, err := builder.Build([]models.ConvertedImage{
		convertedImage("a.webp", models.FormatPNG, []byte("a")),
	})
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(buffer.Bytes()), int64(buffer.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)
	assert.True(t, reader.File[0].Modified.Equal(fixed))
}

func TestNewBuilderClampsLevel(t *testing.T) {
	assert.Equal(t, DefaultCompressionLevel, NewBuilder(nil, 42).level)
	assert.Equal(t, DefaultCompressionLevel, NewBuilder(nil, -7).level)
	assert.Equal(t, 9, NewBuilder(nil, 9).level)
}

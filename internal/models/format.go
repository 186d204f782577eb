package models

import "strings"

// Format is a conversion target.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

const (
	DefaultQuality = 90
	MinQuality     = 1
	MaxQuality     = 100
)

// ParseFormat accepts exactly "jpeg" or "png", surrounding whitespace ignored.
func ParseFormat(value string) (Format, bool) {
	format := Format(strings.TrimSpace(value))
	return format, format.Valid()
}

// FormatFromMimeType maps an image MIME type back to a Format.
func FormatFromMimeType(mimeType string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return FormatJPEG, true
	case "image/png":
		return FormatPNG, true
	default:
		return "", false
	}
}

func (f Format) Valid() bool {
	return f == FormatJPEG || f == FormatPNG
}

func (f Format) MimeType() string {
	return "image/" + string(f)
}

func (f Format) Extension() string {
	return "." + string(f)
}

// NormalizeQuality replaces a quality outside [MinQuality, MaxQuality] with DefaultQuality.
func NormalizeQuality(quality int) int {
	if quality < MinQuality || quality > MaxQuality {
		return DefaultQuality
	}
	return quality
}

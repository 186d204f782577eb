package models

// UploadedFile is one image payload as received from the caller.
type UploadedFile struct {
	Filename string
	Data     []byte
}

type ConversionRequest struct {
	Files   []UploadedFile
	Format  Format
	Quality int
}

// ConvertedImage describes one successfully converted image. ConvertedURL is a
// base64 data URI; Size is the length of the encoded image, not of the URI.
type ConvertedImage struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	ConvertedURL string `json:"convertedUrl"`
	Format       Format `json:"format"`
	Size         int64  `json:"size"`
}

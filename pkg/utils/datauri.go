package utils

import (
	"errors"
	"fmt"

	"github.com/vincent-petithory/dataurl"
)

var ErrInvalidDataURI = errors.New("invalid data URI")

// EncodeDataURI returns data as a base64 data URI of the given MIME type.
func EncodeDataURI(data []byte, mimeType string) string {
	return dataurl.New(data, mimeType).String()
}

// DecodeDataURI returns the payload and MIME type of a data URI.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if uri == "" {
		return nil, "", fmt.Errorf("%w: empty string", ErrInvalidDataURI)
	}

	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	if len(du.Data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return du.Data, du.MediaType.ContentType(), nil
}

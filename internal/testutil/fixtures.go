// Package testutil holds image fixtures shared by package tests.
package testutil

import (
	"bytes"
	_ "embed"
	"image"
	"image/color"
	"image/png"
	"math/rand"
)

// SampleWebPWidth and SampleWebPHeight are the dimensions of the embedded WebP.
const (
	SampleWebPWidth  = 16
	SampleWebPHeight = 16
)

//go:embed testdata/sample.webp
var sampleWebP []byte

// SampleWebP returns a copy of a small lossy WebP with an alpha channel.
func SampleWebP() []byte {
	return append([]byte(nil), sampleWebP...)
}

// CorruptedWebP returns bytes that carry a WebP header but no decodable image.
func CorruptedWebP() []byte {
	data := SampleWebP()
	for i := 30; i < len(data); i++ {
		data[i] = 0
	}
	return data[:40]
}

// PNGImage encodes a solid w x h PNG.
func PNGImage(w, h int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func GenerateRandomBytes(numOfBytesToGenerate int) []byte {
	generatedBytes := make([]byte, numOfBytesToGenerate)
	_, err := rand.Read(generatedBytes)
	if err != nil {
		panic(err)
	}
	return generatedBytes
}

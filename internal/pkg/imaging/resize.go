// Package imaging prepares receipt photos for storage and extraction.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxWidth is the widest a stored receipt image may be.
	MaxWidth = 800
	// Quality is the JPEG quality of stored receipts.
	Quality = 60
)

// ErrUnsupported is returned when the upload is not a decodable image.
var ErrUnsupported = errors.New("unsupported image")

// Downscale decodes a JPEG, PNG or WebP image, shrinks it to at most
// MaxWidth keeping the aspect ratio and re-encodes it as JPEG.
func Downscale(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxWidth {
		h = h * MaxWidth / w
		if h < 1 {
			h = 1
		}
		w = MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL renders JPEG bytes as a data URL.
func DataURL(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}

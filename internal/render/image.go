// Package render rasterizes uploaded documents into page images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"repdf/internal/domain"
	"repdf/internal/port"
)

// DefaultMaxPixels bounds a single decoded page when no limit is configured.
const DefaultMaxPixels = 64_000_000

// ImageRenderer turns a single raster upload into a one-page document.
// Scans carry no reliable DPI, so pages are reported at domain.DefaultDPI.
type ImageRenderer struct {
	maxPixels int
}

// NewImageRenderer creates an ImageRenderer. A non-positive maxPixels uses
// DefaultMaxPixels.
func NewImageRenderer(maxPixels int) *ImageRenderer {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &ImageRenderer{maxPixels: maxPixels}
}

func (r *ImageRenderer) Render(ctx context.Context, input port.RenderInput) ([]domain.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	img, err := decodeBounded(bytes.NewReader(input.Data), r.maxPixels)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, domain.ErrNoPages
	}
	return []domain.PageImage{{Index: 1, Image: img, DPI: domain.DefaultDPI}}, nil
}

// decodeBounded reads the image header first and refuses to decode rasters
// larger than maxPixels.
func decodeBounded(rs io.ReadSeeker, maxPixels int) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: reading image header: %v", domain.ErrUnreadableSource, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %s image is %dx%d, limit is %d pixels",
			domain.ErrUnreadableSource, format, cfg.Width, cfg.Height, maxPixels)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding image: %w", err)
	}
	img, _, err := image.Decode(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", domain.ErrUnreadableSource, err)
	}
	return img, nil
}

// DetectContentType sniffs the first 512 bytes and strips any parameters.
// TIFF has no entry in the standard sniffing table, so its byte-order marks
// are checked here.
func DetectContentType(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	ct, _, _ := strings.Cut(http.DetectContentType(data), ";")
	ct = strings.TrimSpace(ct)
	if ct == "application/octet-stream" &&
		(bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))) {
		return "image/tiff"
	}
	return ct
}

package port

import (
	"context"

	"repdf/internal/domain"
)

// RecognizeInput carries one encoded page image to a recognition backend.
type RecognizeInput struct {
	Image       []byte
	ContentType string
	Width       int
	Height      int
	PageNumber  int
}

// RecognitionBackend abstracts a vision/OCR service. Implementations return the
// backend's unstructured reply, expected to embed {"texts": [...]}.
type RecognitionBackend interface {
	Name() string
	Recognize(ctx context.Context, input RecognizeInput) (string, error)
}

// RegionExtractor turns one raster page into recognized text regions.
type RegionExtractor interface {
	Extract(ctx context.Context, page domain.PageImage) ([]domain.TextRegion, error)
}

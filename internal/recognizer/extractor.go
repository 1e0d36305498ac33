package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"time"

	"repdf/internal/domain"
	"repdf/internal/port"
)

// DefaultExtractTimeout bounds one page's recognition call when none is configured.
const DefaultExtractTimeout = 150 * time.Second

// Extractor implements port.RegionExtractor on top of a RecognitionBackend.
type Extractor struct {
	backend port.RecognitionBackend
	timeout time.Duration
}

// NewExtractor creates an Extractor. A non-positive timeout uses DefaultExtractTimeout.
func NewExtractor(backend port.RecognitionBackend, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	return &Extractor{backend: backend, timeout: timeout}
}

// Extract encodes the page as PNG, asks the backend for text regions and parses
// its reply. Backend failures and timeouts return an *ExtractionError; a reply
// that cannot be parsed yields zero regions and no error.
func (e *Extractor) Extract(ctx context.Context, page domain.PageImage) ([]domain.TextRegion, error) {
	if page.Image == nil {
		return nil, &ExtractionError{Page: page.Index, Backend: e.backend.Name(), Err: fmt.Errorf("page has no image")}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, page.Image); err != nil {
		return nil, &ExtractionError{Page: page.Index, Backend: e.backend.Name(), Err: fmt.Errorf("encoding page: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	reply, err := e.backend.Recognize(callCtx, port.RecognizeInput{
		Image:       buf.Bytes(),
		ContentType: "image/png",
		Width:       page.Width(),
		Height:      page.Height(),
		PageNumber:  page.Index,
	})
	if err != nil {
		return nil, &ExtractionError{Page: page.Index, Backend: e.backend.Name(), Err: err}
	}

	regions, err := ParseReply(reply)
	if err != nil {
		log.Printf("recognizer.Extractor: page %d: %v (raw: %s)", page.Index, err, truncate(reply, 500))
	}
	regions = clipToPage(regions, page.Width(), page.Height())
	log.Printf("recognizer.Extractor: page %d: %d regions via %s in %s",
		page.Index, len(regions), e.backend.Name(), time.Since(start).Round(time.Millisecond))
	return regions, nil
}

// clipToPage drops regions without text or whose origin lies off the page and
// clips the rest to the page bounds. Regions the backend gave no size keep a
// zero size so the mapper can substitute its default footprint.
func clipToPage(regions []domain.TextRegion, width, height int) []domain.TextRegion {
	pw, ph := float64(width), float64(height)
	out := regions[:0]
	for _, r := range regions {
		if r.Content == "" || r.X >= pw || r.Y >= ph {
			continue
		}
		r.X, r.Width = clipSpan(r.X, r.Width, pw)
		r.Y, r.Height = clipSpan(r.Y, r.Height, ph)
		out = append(out, r)
	}
	return out
}

func clipSpan(pos, size, limit float64) (float64, float64) {
	if size <= 0 {
		return max(pos, 0), 0
	}
	end := min(pos+size, limit)
	pos = max(pos, 0)
	return pos, max(end-pos, 0)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package render

import (
	"context"
	"fmt"
	"log"
	"strings"

	"repdf/internal/config"
	"repdf/internal/domain"
	"repdf/internal/port"
)

// Renderer dispatches to the PDF or image renderer by content type.
type Renderer struct {
	pdf   port.PageRenderer
	image port.PageRenderer
	dpi   int
}

// NewRenderer wires the pdftoppm and image renderers from config.
func NewRenderer(cfg config.RenderConfig) *Renderer {
	return NewRendererWith(
		NewPdftoppmRenderer(cfg.PdftoppmPath, cfg.Timeout, cfg.MaxPixels),
		NewImageRenderer(cfg.MaxPixels),
		cfg.DPI,
	)
}

// NewRendererWith builds a Renderer from explicit backends.
func NewRendererWith(pdf, img port.PageRenderer, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{pdf: pdf, image: img, dpi: dpi}
}

// Check reports whether the PDF backend is usable.
func (r *Renderer) Check(ctx context.Context) error {
	if c, ok := r.pdf.(interface{ Check(context.Context) error }); ok {
		return c.Check(ctx)
	}
	return nil
}

func (r *Renderer) Render(ctx context.Context, input port.RenderInput) ([]domain.PageImage, error) {
	if input.DPI <= 0 {
		input.DPI = r.dpi
	}
	contentType, _, _ := strings.Cut(input.ContentType, ";")
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = DetectContentType(input.Data)
	}

	var (
		pages []domain.PageImage
		err   error
	)
	switch {
	case contentType == "application/pdf":
		pages, err = r.pdf.Render(ctx, input)
	case strings.HasPrefix(contentType, "image/"):
		pages, err = r.image.Render(ctx, input)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}
	if err != nil {
		log.Printf("render.Renderer: %s: %v", contentType, err)
		return nil, err
	}
	return pages, nil
}

package port

import (
	"context"

	"repdf/internal/domain"
)

// RenderInput is a source document submitted for rasterization.
type RenderInput struct {
	Data        []byte
	ContentType string
	DPI         int
	// Pages restricts rendering to these 1-based page numbers; empty means all.
	// Renderers that cannot select pages return everything and callers filter
	// by PageImage.Index.
	Pages       []int
}

// PageRenderer rasterizes a source document into pages ordered front to back.
type PageRenderer interface {
	Render(ctx context.Context, input RenderInput) ([]domain.PageImage, error)
}

// Package geometry converts page-pixel geometry into slide canvas units (EMU).
package geometry

import (
	"math"
	"strings"

	"repdf/internal/domain"
)

// Minimum text box substituted for degenerate mapped dimensions: 200x50 px at 96 DPI.
const (
	DefaultBoxWidth  = 200 * domain.EMUPerInch / domain.DefaultDPI
	DefaultBoxHeight = 50 * domain.EMUPerInch / domain.DefaultDPI
)

// Source describes the raster a region was measured on.
type Source struct {
	Width  int
	Height int
	DPI    int
}

// SourceOf returns the mapping source for a rendered page.
func SourceOf(p domain.PageImage) Source {
	return Source{Width: p.Width(), Height: p.Height(), DPI: p.EffectiveDPI()}
}

// Mapper scales pixel regions onto a fixed canvas. Each axis has its own
// factor, so a source whose aspect differs from the canvas is stretched.
type Mapper struct {
	target domain.Canvas
	fx, fy float64 // EMU per source pixel after scaling
}

// NewMapper builds a mapper for one source page and target canvas.
func NewMapper(src Source, target domain.Canvas) *Mapper {
	dpi := src.DPI
	if dpi <= 0 {
		dpi = domain.DefaultDPI
	}
	perPx := float64(domain.EMUPerInch) / float64(dpi)

	m := &Mapper{target: target}
	if src.Width > 0 {
		scaleX := float64(target.Width) / (float64(src.Width) * perPx)
		m.fx = perPx * scaleX
	}
	if src.Height > 0 {
		scaleY := float64(target.Height) / (float64(src.Height) * perPx)
		m.fy = perPx * scaleY
	}
	return m
}

// Target returns the canvas the mapper projects onto.
func (m *Mapper) Target() domain.Canvas {
	return m.target
}

// Map returns a copy of r with geometry in EMU. Non-geometric fields are kept.
func (m *Mapper) Map(r domain.TextRegion) domain.TextRegion {
	out := r
	out.X = math.Round(r.X * m.fx)
	out.Y = math.Round(r.Y * m.fy)
	out.Width = math.Round(r.Width * m.fx)
	out.Height = math.Round(r.Height * m.fy)
	if out.Width <= 0 {
		out.Width = DefaultBoxWidth
	}
	if out.Height <= 0 {
		out.Height = DefaultBoxHeight
	}
	return out
}

// MapAll maps every region with non-blank content, preserving order.
func (m *Mapper) MapAll(regions []domain.TextRegion) []domain.TextRegion {
	out := make([]domain.TextRegion, 0, len(regions))
	for _, r := range regions {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		out = append(out, m.Map(r))
	}
	return out
}

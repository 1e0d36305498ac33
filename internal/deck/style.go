package deck

import (
	"math"
	"strings"

	"repdf/internal/domain"
	"repdf/internal/geometry"
)

// DefaultFontSize is used where a format needs an explicit size and the
// region carries none.
const DefaultFontSize = 18.0

// textStyle is the resolved run formatting of one region. Each field is
// decided on its own; an unusable hint leaves only that field unset.
type textStyle struct {
	size     float64 // points, 0 = inherit
	bold     bool
	color    domain.RGB
	hasColor bool
}

func resolveStyle(r domain.TextRegion) textStyle {
	var s textStyle
	if size, ok := fontSize(r); ok {
		s.size = size
	}
	s.bold = bold(r)
	if c, ok := textColor(r); ok {
		s.color, s.hasColor = c, true
	}
	return s
}

func fontSize(r domain.TextRegion) (float64, bool) {
	if r.FontSize <= 0 || math.IsNaN(r.FontSize) || math.IsInf(r.FontSize, 0) {
		return 0, false
	}
	return r.FontSize, true
}

func bold(r domain.TextRegion) bool {
	return r.FontWeight == domain.FontWeightBold
}

func textColor(r domain.TextRegion) (domain.RGB, bool) {
	if r.Color == nil {
		return domain.RGB{}, false
	}
	return *r.Color, true
}

// box is a text frame in EMU with strictly positive extent.
type box struct {
	x, y, w, h int64
}

func boxOf(r domain.TextRegion) box {
	b := box{
		x: int64(math.Round(r.X)),
		y: int64(math.Round(r.Y)),
		w: int64(math.Round(r.Width)),
		h: int64(math.Round(r.Height)),
	}
	if b.w <= 0 {
		b.w = geometry.DefaultBoxWidth
	}
	if b.h <= 0 {
		b.h = geometry.DefaultBoxHeight
	}
	return b
}

// lines splits region content into paragraphs.
func lines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func hasText(r domain.TextRegion) bool {
	return strings.TrimSpace(r.Content) != ""
}

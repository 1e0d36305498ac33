package domain

import (
	"fmt"
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultDPI is assumed for pixel to physical conversion when a page carries no DPI.
const DefaultDPI = 96

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// RGB is an 8-bit color triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// White is the fill used when no background samples are available.
var White = RGB{R: 255, G: 255, B: 255}

// Hex returns the color as RRGGBB without a leading '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHexColor parses exactly six hex digits with an optional leading '#'.
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, ErrInvalidColor
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// TextRegion is one recognized block of text with geometry and style hints.
// Geometry is in pixels when produced by the extractor and in EMU after mapping.
type TextRegion struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	FontSize   float64    `json:"font_size,omitempty"`
	FontWeight FontWeight `json:"font_weight"`
	Color      *RGB       `json:"color,omitempty"`
	Confidence float64    `json:"confidence"`
}

// HasArea reports whether both dimensions are positive.
func (r TextRegion) HasArea() bool {
	return r.Width > 0 && r.Height > 0
}

// Area returns width*height, or 0 for degenerate regions.
func (r TextRegion) Area() float64 {
	if !r.HasArea() {
		return 0
	}
	return r.Width * r.Height
}

// PageImage is one rasterized source page. Index is the 1-based page number.
type PageImage struct {
	Index int
	Image image.Image
	DPI   int
}

// Width returns the raster width in pixels.
func (p PageImage) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the raster height in pixels.
func (p PageImage) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// EffectiveDPI returns DPI, falling back to DefaultDPI.
func (p PageImage) EffectiveDPI() int {
	if p.DPI <= 0 {
		return DefaultDPI
	}
	return p.DPI
}

// Canvas is the fixed slide size in EMU.
type Canvas struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// CanvasForRatio returns the slide canvas for a ratio preset:
// 13.333in x 7.5in for 16:9 and 10in x 7.5in for 4:3.
func CanvasForRatio(ratio SlideRatio) Canvas {
	if ratio == Ratio4x3 {
		return Canvas{Width: 10 * EMUPerInch, Height: 7.5 * EMUPerInch}
	}
	return Canvas{Width: 12192000, Height: 7.5 * EMUPerInch}
}

// ReconstructionRequest is the immutable description of one conversion.
type ReconstructionRequest struct {
	JobID           string
	SourcePages     []PageImage
	PageFilter      []int
	TargetRatio     SlideRatio
	RemoveWatermark bool
	OutputFormat    OutputFormat
}

// SelectedPages applies PageFilter (1-based, deduplicated, ascending) to SourcePages.
// An empty filter selects every page. Indices outside the document are ignored.
func (r ReconstructionRequest) SelectedPages() []PageImage {
	if len(r.PageFilter) == 0 {
		return r.SourcePages
	}
	wanted := make(map[int]bool, len(r.PageFilter))
	for _, n := range r.PageFilter {
		wanted[n] = true
	}
	out := make([]PageImage, 0, len(wanted))
	for i, p := range r.SourcePages {
		if wanted[i+1] {
			out = append(out, p)
		}
	}
	return out
}

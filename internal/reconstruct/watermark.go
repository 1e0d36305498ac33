package reconstruct

import "repdf/internal/domain"

// WatermarkBand sizes the bottom-right strip erased when watermark removal is
// requested. Fractions are of the page width and height.
type WatermarkBand struct {
	WidthFrac  float64
	HeightFrac float64
	MarginFrac float64
}

// DefaultWatermarkBand matches the corner badge left by common slide generators.
var DefaultWatermarkBand = WatermarkBand{WidthFrac: 0.18, HeightFrac: 0.06, MarginFrac: 0.01}

// Region returns the band as a fill-only region for a width x height page.
// It has no content, so it is never turned into a text box.
func (wb WatermarkBand) Region(width, height int) domain.TextRegion {
	if wb.WidthFrac <= 0 || wb.HeightFrac <= 0 {
		wb = DefaultWatermarkBand
	}
	w := float64(width) * wb.WidthFrac
	h := float64(height) * wb.HeightFrac
	mx := float64(width) * wb.MarginFrac
	my := float64(height) * wb.MarginFrac
	return domain.TextRegion{
		X:      float64(width) - w - mx,
		Y:      float64(height) - h - my,
		Width:  w,
		Height: h,
	}
}

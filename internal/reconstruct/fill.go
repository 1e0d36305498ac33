// Package reconstruct erases recognized text from a page raster by painting
// each region with a flat color sampled from just outside its edges. This is
// a cheap local approximation, not content-aware inpainting: gradients and
// photos behind text come out as a solid patch.
package reconstruct

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"

	"repdf/internal/domain"
)

const (
	sampleOffset = 5
	sampleStride = 10
)

// Reconstruct copies img into a new RGBA raster with origin (0,0) and fills
// every positive-area region in the given order. Later regions may sample
// pixels already filled by earlier ones.
func Reconstruct(img image.Image, regions []domain.TextRegion) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for _, r := range regions {
		if !r.HasArea() {
			continue
		}
		x, y, w, h := int(r.X), int(r.Y), int(r.Width), int(r.Height)
		if w <= 0 || h <= 0 {
			continue
		}
		fill := SampleFillColor(dst, x, y, w, h)
		rect := image.Rect(x, y, x+w, y+h).Intersect(dst.Bounds())
		if rect.Empty() {
			continue
		}
		draw.Draw(dst, rect, &image.Uniform{C: color.RGBA{R: fill.R, G: fill.G, B: fill.B, A: 0xff}}, image.Point{}, draw.Src)
	}
	return dst
}

// SampleFillColor averages pixels on the four edges of the box (x,y,w,h),
// 5px outside it, every 10px along each edge. Edges that would fall outside
// the image are skipped; with no samples at all the result is white.
func SampleFillColor(img *image.RGBA, x, y, w, h int) domain.RGB {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	var sumR, sumG, sumB, n int
	sample := func(px, py int) {
		c := img.RGBAAt(b.Min.X+px, b.Min.Y+py)
		sumR += int(c.R)
		sumG += int(c.G)
		sumB += int(c.B)
		n++
	}

	x0, x1 := max(0, x), min(width, x+w)
	y0, y1 := max(0, y), min(height, y+h)

	if y > sampleOffset {
		for px := x0; px < x1; px += sampleStride {
			sample(px, y-sampleOffset)
		}
	}
	if y+h+sampleOffset < height {
		for px := x0; px < x1; px += sampleStride {
			sample(px, y+h+sampleOffset)
		}
	}
	if x > sampleOffset {
		for py := y0; py < y1; py += sampleStride {
			sample(x-sampleOffset, py)
		}
	}
	if x+w+sampleOffset < width {
		for py := y0; py < y1; py += sampleStride {
			sample(x+w+sampleOffset, py)
		}
	}

	if n == 0 {
		return domain.White
	}
	return domain.RGB{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n)}
}

// OrderRegions returns a copy of regions sorted largest-area-first. Ties keep
// their original relative order, so the fill order is reproducible.
func OrderRegions(regions []domain.TextRegion) []domain.TextRegion {
	out := make([]domain.TextRegion, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Area() > out[j].Area()
	})
	return out
}

package analysis

import "repdf/internal/domain"

// paperSizes in millimetres, portrait.
var paperSizes = []struct {
	name string
	w, h float64
}{
	{"A4", 210, 297},
	{"A3", 297, 420},
	{"A5", 148, 210},
	{"B4", 257, 364},
	{"B5", 176, 250},
	{"Letter", 216, 279},
}

// paperTolerance is the largest summed width+height deviation, in mm, still
// treated as a match.
const paperTolerance = 10.0

// DetectPaperSize names the closest standard size regardless of orientation,
// or "Custom".
func DetectPaperSize(widthMM, heightMM float64) string {
	if widthMM > heightMM {
		widthMM, heightMM = heightMM, widthMM
	}
	best := "Custom"
	bestDiff := paperTolerance
	for _, p := range paperSizes {
		diff := abs(widthMM-p.w) + abs(heightMM-p.h)
		if diff < bestDiff {
			best, bestDiff = p.name, diff
		}
	}
	return best
}

// DetectOrientation reports landscape only when strictly wider than tall.
func DetectOrientation(width, height float64) domain.Orientation {
	if width > height {
		return domain.OrientationLandscape
	}
	return domain.OrientationPortrait
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

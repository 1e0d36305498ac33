// Package analysis inspects an upload before conversion: page count, text
// layer coverage, physical page size and a recognition cost estimate.
package analysis

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"math"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"repdf/internal/domain"
)

const (
	mmPerInch   = 25.4
	pointsPerIn = 72.0
)

// Analyze inspects data according to its content type.
func Analyze(data []byte, contentType string) (*domain.DocumentAnalysis, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	switch {
	case contentType == "application/pdf":
		return analyzePDF(data)
	case strings.HasPrefix(contentType, "image/"):
		return analyzeImage(data)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}
}

func analyzePDF(data []byte) (result *domain.DocumentAnalysis, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("%w: %v", domain.ErrUnreadableSource, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}
	total := reader.NumPage()
	if total == 0 {
		return nil, domain.ErrNoPages
	}

	withText := 0
	for i := 1; i <= total; i++ {
		if pageHasText(reader.Page(i)) {
			withText++
		}
	}

	kind := domain.KindMixed
	switch withText {
	case total:
		kind = domain.KindNativePDF
	case 0:
		kind = domain.KindImagePDF
	}

	wPt, hPt := mediaBox(reader.Page(1))
	wMM, hMM := wPt/pointsPerIn*mmPerInch, hPt/pointsPerIn*mmPerInch

	return &domain.DocumentAnalysis{
		Kind:          kind,
		Pages:         total,
		PagesWithText: withText,
		PagesNeedOCR:  total - withText,
		OriginalSize:  domain.PaperSize{WidthMM: round(wMM, 1), HeightMM: round(hMM, 1), Name: DetectPaperSize(wMM, hMM)},
		Orientation:   DetectOrientation(wMM, hMM),
		EstimatedCost: EstimateCost(total),
	}, nil
}

func pageHasText(p pdflib.Page) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if p.V.IsNull() {
		return false
	}
	text, err := p.GetPlainText(nil)
	return err == nil && strings.TrimSpace(text) != ""
}

// mediaBox returns the page size in points, following Parent links for an
// inherited box.
func mediaBox(p pdflib.Page) (float64, float64) {
	v := p.V
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			return math.Abs(w), math.Abs(h)
		}
		v = v.Key("Parent")
	}
	return 0, 0
}

func analyzeImage(data []byte) (*domain.DocumentAnalysis, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}
	wMM := float64(cfg.Width) / domain.DefaultDPI * mmPerInch
	hMM := float64(cfg.Height) / domain.DefaultDPI * mmPerInch
	return &domain.DocumentAnalysis{
		Kind:          domain.KindImage,
		Pages:         1,
		PagesNeedOCR:  1,
		OriginalSize:  domain.PaperSize{WidthMM: round(wMM, 1), HeightMM: round(hMM, 1), Name: DetectPaperSize(wMM, hMM)},
		Orientation:   DetectOrientation(wMM, hMM),
		EstimatedCost: EstimateCost(1),
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

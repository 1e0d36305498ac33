package analysis_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repdf/internal/analysis"
	"repdf/internal/domain"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// buildPDF creates an A4 portrait PDF; textPages[i] selects whether page i
// gets a text layer or only an image.
func buildPDF(t *testing.T, textPages ...bool) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 16)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("scan", opts, bytes.NewReader(pngOf(t, 20, 20)))
	for _, withText := range textPages {
		doc.AddPage()
		if withText {
			doc.Text(20, 30, "Quarterly results")
		} else {
			doc.ImageOptions("scan", 0, 0, 210, 297, false, opts, 0, "")
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestAnalyze_NativePDF(t *testing.T) {
	got, err := analysis.Analyze(buildPDF(t, true, true), "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, domain.KindNativePDF, got.Kind)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, 2, got.PagesWithText)
	assert.Equal(t, 0, got.PagesNeedOCR)
	assert.Equal(t, "A4", got.OriginalSize.Name)
	assert.InDelta(t, 210, got.OriginalSize.WidthMM, 0.5)
	assert.InDelta(t, 297, got.OriginalSize.HeightMM, 0.5)
	assert.Equal(t, domain.OrientationPortrait, got.Orientation)
	assert.InDelta(t, 0.005, got.EstimatedCost.Total, 1e-9)
}

func TestAnalyze_ImagePDF(t *testing.T) {
	got, err := analysis.Analyze(buildPDF(t, false), "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, domain.KindImagePDF, got.Kind)
	assert.Equal(t, 1, got.PagesNeedOCR)
}

func TestAnalyze_MixedPDF(t *testing.T) {
	got, err := analysis.Analyze(buildPDF(t, true, false, false), "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, domain.KindMixed, got.Kind)
	assert.Equal(t, 1, got.PagesWithText)
	assert.Equal(t, 2, got.PagesNeedOCR)
}

func TestAnalyze_Image(t *testing.T) {
	got, err := analysis.Analyze(pngOf(t, 1920, 1080), "image/png")

	require.NoError(t, err)
	assert.Equal(t, domain.KindImage, got.Kind)
	assert.Equal(t, 1, got.Pages)
	assert.Equal(t, domain.OrientationLandscape, got.Orientation)
	assert.InDelta(t, 508, got.OriginalSize.WidthMM, 0.1)
	assert.Equal(t, "Custom", got.OriginalSize.Name)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := analysis.Analyze(nil, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = analysis.Analyze([]byte("plain"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = analysis.Analyze([]byte("%PDF-1.4 broken"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrUnreadableSource)

	_, err = analysis.Analyze([]byte("nope"), "image/png")
	assert.ErrorIs(t, err, domain.ErrUnreadableSource)
}

func TestDetectPaperSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want string
	}{
		{210, 297, "A4"},
		{297, 210, "A4"},
		{297, 420, "A3"},
		{148, 210, "A5"},
		{257, 364, "B4"},
		{176, 250, "B5"},
		{215.9, 279.4, "Letter"},
		{212, 300, "A4"},
		{220, 300, "Custom"},
		{338.7, 190.5, "Custom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, analysis.DetectPaperSize(tt.w, tt.h), "%vx%v", tt.w, tt.h)
	}
}

func TestDetectOrientation(t *testing.T) {
	assert.Equal(t, domain.OrientationLandscape, analysis.DetectOrientation(300, 200))
	assert.Equal(t, domain.OrientationPortrait, analysis.DetectOrientation(200, 300))
	assert.Equal(t, domain.OrientationPortrait, analysis.DetectOrientation(200, 200))
}

func TestEstimateCost(t *testing.T) {
	got := analysis.EstimateCost(10)

	assert.InDelta(t, 0.025, got.OCR, 1e-9)
	assert.Equal(t, 0.0, got.Inpainting)
	assert.InDelta(t, 0.025, got.Total, 1e-9)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, 0.0, analysis.EstimateCost(-1).Total)
}

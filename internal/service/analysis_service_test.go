package service_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"repdf/internal/domain"
	"repdf/internal/service"
)

func TestAnalysisService_Analyze_Image(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1920, 1080))))

	result, err := service.NewAnalysisService(0).Analyze(context.Background(), "slide.png", buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, domain.KindImage, result.Kind)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, domain.OrientationLandscape, result.Orientation)
}

func TestAnalysisService_Analyze_BMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 600, 800))))

	result, err := service.NewAnalysisService(0).Analyze(context.Background(), "scan.bmp", buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, domain.KindImage, result.Kind)
	assert.Equal(t, domain.OrientationPortrait, result.Orientation)
}

func TestAnalysisService_Analyze_Rejects(t *testing.T) {
	svc := service.NewAnalysisService(16)

	_, err := svc.Analyze(context.Background(), "a.pdf", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = svc.Analyze(context.Background(), "a.pdf", bytes.Repeat([]byte("x"), 17))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	_, err = svc.Analyze(context.Background(), "a.txt", []byte("hello"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Analyze(ctx, "a.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, context.Canceled)
}

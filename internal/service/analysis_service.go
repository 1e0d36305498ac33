package service

import (
	"context"
	"log"

	"repdf/internal/analysis"
	"repdf/internal/domain"
	"repdf/internal/render"
)

// AnalysisService inspects a source document before conversion.
type AnalysisService interface {
	Analyze(ctx context.Context, fileName string, data []byte) (*domain.DocumentAnalysis, error)
}

type analysisService struct {
	maxFileSize int64
}

// NewAnalysisService creates a new AnalysisService. maxFileSize is in bytes;
// zero disables the limit.
func NewAnalysisService(maxFileSize int64) AnalysisService {
	return &analysisService{maxFileSize: maxFileSize}
}

func (s *analysisService) Analyze(ctx context.Context, fileName string, data []byte) (*domain.DocumentAnalysis, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentType := render.DetectContentType(data)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	result, err := analysis.Analyze(data, contentType)
	if err != nil {
		log.Printf("analysisService.Analyze: %s: %v", fileName, err)
		return nil, err
	}
	log.Printf("analysisService.Analyze: %s: %s, %d pages, %d need OCR",
		fileName, result.Kind, result.Pages, result.PagesNeedOCR)
	return result, nil
}

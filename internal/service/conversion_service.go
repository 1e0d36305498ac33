package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"repdf/internal/domain"
	"repdf/internal/port"
	"repdf/internal/render"
)

// ConversionInput is the DTO for conversion requests.
type ConversionInput struct {
	FileName        string
	Data            []byte
	OutputRatio     string
	OutputFormat    string
	Pages           string
	RemoveWatermark bool
}

// ConversionResult is a finished deck ready to be served.
type ConversionResult struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ConversionService defines the conversion job contract.
type ConversionService interface {
	Submit(ctx context.Context, input ConversionInput) (*domain.JobSnapshot, error)
	Status(ctx context.Context, jobID string) (*domain.JobSnapshot, error)
	Result(ctx context.Context, jobID string) (*ConversionResult, error)
}

// JobDispatcher starts a stored job in the background.
type JobDispatcher interface {
	Dispatch(job *domain.Job, conv Conversion)
}

type conversionService struct {
	store       port.JobStore
	dispatcher  JobDispatcher
	maxFileSize int64
}

// NewConversionService creates a new ConversionService implementation.
// maxFileSize is in bytes; zero disables the limit.
func NewConversionService(store port.JobStore, dispatcher JobDispatcher, maxFileSize int64) ConversionService {
	return &conversionService{
		store:       store,
		dispatcher:  dispatcher,
		maxFileSize: maxFileSize,
	}
}

func (s *conversionService) Submit(ctx context.Context, input ConversionInput) (*domain.JobSnapshot, error) {
	conv, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	job := domain.NewJob(uuid.New().String(), conv.Format, input.FileName)
	if err := s.store.Put(ctx, job); err != nil {
		return nil, fmt.Errorf("storing job: %w", err)
	}

	log.Printf("conversionService.Submit: job %s queued (%s, %d bytes, ratio=%s, format=%s, pages=%v, watermark=%t)",
		job.ID, conv.ContentType, len(conv.Data), conv.Ratio, conv.Format, conv.PageFilter, conv.RemoveWatermark)

	s.dispatcher.Dispatch(job, conv)

	snap := job.Snapshot()
	return &snap, nil
}

// validate checks the request and detects the source type from its magic bytes.
func (s *conversionService) validate(input ConversionInput) (Conversion, error) {
	if len(input.Data) == 0 {
		return Conversion{}, domain.ErrEmptyFile
	}
	if s.maxFileSize > 0 && int64(len(input.Data)) > s.maxFileSize {
		return Conversion{}, domain.ErrFileTooLarge
	}
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), ".")); ext != "" {
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			return Conversion{}, domain.ErrUnsupportedFileType
		}
	}

	contentType := render.DetectContentType(input.Data)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return Conversion{}, domain.ErrUnsupportedFileType
	}

	ratio, err := domain.ParseSlideRatio(input.OutputRatio)
	if err != nil {
		return Conversion{}, err
	}
	format, err := domain.ParseOutputFormat(input.OutputFormat)
	if err != nil {
		return Conversion{}, err
	}
	pages, err := domain.ParsePageFilter(input.Pages)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{
		Data:            input.Data,
		ContentType:     contentType,
		PageFilter:      pages,
		Ratio:           ratio,
		Format:          format,
		RemoveWatermark: input.RemoveWatermark,
	}, nil
}

func (s *conversionService) Status(ctx context.Context, jobID string) (*domain.JobSnapshot, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	snap := job.Snapshot()
	return &snap, nil
}

func (s *conversionService) Result(ctx context.Context, jobID string) (*ConversionResult, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	data, err := job.Result()
	if err != nil {
		return nil, err
	}
	return &ConversionResult{
		Data:        data,
		ContentType: job.OutputFormat.ContentType(),
		FileName:    ResultFileName(job),
	}, nil
}

// ResultFileName names a download after the first eight characters of the job id.
func ResultFileName(job *domain.Job) string {
	short := job.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("repdf_%s.%s", short, job.OutputFormat.Extension())
}

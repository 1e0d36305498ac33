package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"repdf/internal/deck"
	"repdf/internal/domain"
	"repdf/internal/geometry"
	"repdf/internal/port"
	"repdf/internal/reconstruct"
)

// DownloadPathPrefix is the result location reported when decks are served from memory.
const DownloadPathPrefix = "/api/v1/download/"

// Percent milestones. Pages share [0, pagePercentSpan]; saving and done take the rest.
const (
	pagePercentSpan = 90
	savingPercent   = 95
)

// Conversion is everything the pipeline needs to run one job.
type Conversion struct {
	Data            []byte
	ContentType     string
	PageFilter      []int
	Ratio           domain.SlideRatio
	Format          domain.OutputFormat
	RemoveWatermark bool
}

// PipelineConfig holds pipeline settings.
type PipelineConfig struct {
	DPI       int
	Watermark reconstruct.WatermarkBand
	// Bucket and PresignExpiry apply only when a storage backend is configured.
	Bucket        string
	PresignExpiry int64
}

// Pipeline renders, recognizes, reconstructs and assembles one job's pages.
type Pipeline struct {
	renderer  port.PageRenderer
	extractor port.RegionExtractor
	storage   port.ObjectStorage
	cfg       PipelineConfig
}

// NewPipeline creates a Pipeline. storage may be nil, in which case results
// are only kept in memory and served through the download endpoint.
func NewPipeline(renderer port.PageRenderer, extractor port.RegionExtractor, storage port.ObjectStorage, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		renderer:  renderer,
		extractor: extractor,
		storage:   storage,
		cfg:       cfg,
	}
}

// Run drives job from pending to done or failed. It never returns an error:
// every failure, including a panic, is recorded on the job.
func (p *Pipeline) Run(ctx context.Context, job *domain.Job, conv Conversion) {
	if err := job.Start(); err != nil {
		log.Printf("pipeline.Run: job %s not started: %v", job.ID, err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline.Run: job %s panicked: %v\n%s", job.ID, r, debug.Stack())
			_ = job.Fail(fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := p.run(ctx, job, conv); err != nil {
		log.Printf("pipeline.Run: job %s failed: %v", job.ID, err)
		_ = job.Fail(err.Error())
		return
	}
	log.Printf("pipeline.Run: job %s done", job.ID)
}

func (p *Pipeline) run(ctx context.Context, job *domain.Job, conv Conversion) error {
	builder, err := deck.New(conv.Format, conv.Ratio)
	if err != nil {
		return err
	}

	job.Advance(domain.StepConverting, 0, 0)
	pages, err := p.renderer.Render(ctx, port.RenderInput{
		Data:        conv.Data,
		ContentType: conv.ContentType,
		DPI:         p.cfg.DPI,
		Pages:       conv.PageFilter,
	})
	if err != nil {
		return fmt.Errorf("rendering source: %w", err)
	}
	if len(pages) == 0 {
		return domain.ErrNoPages
	}

	req := domain.ReconstructionRequest{
		JobID:           job.ID,
		SourcePages:     pages,
		PageFilter:      conv.PageFilter,
		TargetRatio:     conv.Ratio,
		RemoveWatermark: conv.RemoveWatermark,
		OutputFormat:    conv.Format,
	}
	selected := req.SelectedPages()
	if len(selected) == 0 {
		return fmt.Errorf("%w: document has %d pages", domain.ErrNoPagesSelected, len(pages))
	}
	total := len(selected)
	job.SetTotalPages(total)
	log.Printf("pipeline.run: job %s rendered %d pages, processing %d", job.ID, len(pages), total)

	for i, page := range selected {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("processing page %d: %w", page.Index, err)
		}
		if err := p.processPage(ctx, job, builder, req, page, i, total); err != nil {
			return fmt.Errorf("processing page %d: %w", page.Index, err)
		}
	}

	job.Advance(domain.StepSaving, total, savingPercent)
	data, err := builder.Finalize()
	if err != nil {
		return fmt.Errorf("finalizing deck: %w", err)
	}

	return job.Complete(data, p.publish(ctx, job, data))
}

// processPage runs recognition, background fill, mapping and assembly for one
// page. Recognition failures are logged and the page keeps its original text
// baked into the background.
func (p *Pipeline) processPage(ctx context.Context, job *domain.Job, builder port.DeckBuilder, req domain.ReconstructionRequest, page domain.PageImage, i, total int) error {
	done := i * pagePercentSpan / total

	job.Advance(domain.StepOCR, i+1, done)
	regions, err := p.extractor.Extract(ctx, page)
	if err != nil {
		log.Printf("pipeline.processPage: job %s page %d: recognition failed, continuing without text: %v",
			job.ID, page.Index, err)
		regions = nil
	}

	job.Advance(domain.StepInpainting, i+1, done)
	fill := reconstruct.OrderRegions(regions)
	if req.RemoveWatermark {
		fill = append([]domain.TextRegion{p.cfg.Watermark.Region(page.Width(), page.Height())}, fill...)
	}
	background := reconstruct.Reconstruct(page.Image, fill)

	job.Advance(domain.StepPptx, i+1, done)
	mapper := geometry.NewMapper(geometry.SourceOf(page), builder.Canvas())
	if err := builder.AddPage(background, mapper.MapAll(regions)); err != nil {
		return fmt.Errorf("adding slide: %w", err)
	}

	job.Advance(domain.StepPptx, i+1, (i+1)*pagePercentSpan/total)
	return nil
}

// publish uploads the finished deck when storage is configured and returns
// the location callers should fetch it from. Upload failures fall back to the
// in-memory download path.
func (p *Pipeline) publish(ctx context.Context, job *domain.Job, data []byte) string {
	local := DownloadPathPrefix + job.ID
	if p.storage == nil {
		return local
	}

	key := fmt.Sprintf("results/%s.%s", job.ID, job.OutputFormat.Extension())
	_, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: job.OutputFormat.ContentType(),
		Size:        int64(len(data)),
		FileName:    ResultFileName(job),
	})
	if err != nil {
		log.Printf("pipeline.publish: job %s: %v", job.ID, errors.Join(domain.ErrUploadFailed, err))
		return local
	}

	url, err := p.storage.GetPresignedURL(ctx, p.cfg.Bucket, key, p.cfg.PresignExpiry)
	if err != nil {
		log.Printf("pipeline.publish: job %s: presigning %s: %v", job.ID, key, err)
		if derr := p.storage.Delete(ctx, p.cfg.Bucket, key); derr != nil {
			log.Printf("pipeline.publish: job %s: removing unreachable %s: %v", job.ID, key, derr)
		}
		return local
	}
	return url
}

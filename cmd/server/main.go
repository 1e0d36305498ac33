// @title repdf API
// @version 1.0
// @description Turns PDFs and scans into editable slide decks.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"repdf/internal/config"
	"repdf/internal/handler"
	"repdf/internal/jobstore/memory"
	"repdf/internal/port"
	"repdf/internal/reconstruct"
	"repdf/internal/recognizer"
	"repdf/internal/render"
	"repdf/internal/router"
	"repdf/internal/service"
	s3storage "repdf/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize recognition chain
	registerBackends(ctx)
	backend, err := recognizer.NewChain(cfg.Recognizer.Chain())
	if err != nil {
		return fmt.Errorf("failed to initialize recognition backends: %w", err)
	}
	extractor := recognizer.NewExtractor(backend, time.Duration(cfg.Recognizer.ExtractTimeoutSecs)*time.Second)
	log.Printf("Recognition backend: %s", backend.Name())

	// Initialize storage (optional)
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("Publishing results to s3://%s", cfg.S3.Bucket)
	}

	// Initialize pipeline and job worker
	renderer := render.NewRenderer(cfg.Render)
	pipeline := service.NewPipeline(renderer, extractor, storage, service.PipelineConfig{
		DPI: cfg.Render.DPI,
		Watermark: reconstruct.WatermarkBand{
			WidthFrac:  cfg.Jobs.Watermark.WidthFrac,
			HeightFrac: cfg.Jobs.Watermark.HeightFrac,
			MarginFrac: cfg.Jobs.Watermark.MarginFrac,
		},
		Bucket:        cfg.S3.Bucket,
		PresignExpiry: cfg.S3.PresignExpiry,
	})

	store := memory.NewStore()
	worker := service.NewJobWorker(store, pipeline, service.JobWorkerConfig{
		Concurrency:     cfg.Jobs.Concurrency,
		JobTimeout:      cfg.Jobs.JobTimeout,
		RetentionTTL:    cfg.Jobs.RetentionTTL,
		CleanupInterval: cfg.Jobs.CleanupInterval,
	})
	workerDone := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(workerDone)
	}()

	// Initialize services
	maxUpload := cfg.Server.MaxUploadMB * 1024 * 1024
	conversionSvc := service.NewConversionService(store, worker, maxUpload)
	analysisSvc := service.NewAnalysisService(maxUpload)

	// Initialize handlers
	conversionH := handler.NewConversionHandler(conversionSvc, maxUpload)
	analysisH := handler.NewAnalysisHandler(analysisSvc, maxUpload)
	healthH := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"pdftoppm": renderer.Check,
	})

	// Setup router
	r := router.Setup(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   maxUpload + 1024*1024,
		EnableSwagger:  cfg.Server.Environment != "production",
	}, conversionH, analysisH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	return nil
}

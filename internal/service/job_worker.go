package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"repdf/internal/domain"
	"repdf/internal/port"
)

// JobWorkerConfig holds settings for the job worker.
type JobWorkerConfig struct {
	Concurrency     int
	JobTimeout      time.Duration
	RetentionTTL    time.Duration
	CleanupInterval time.Duration
}

// JobWorker runs submitted jobs with bounded concurrency and evicts finished
// jobs once their retention expires.
type JobWorker struct {
	store    port.JobStore
	pipeline *Pipeline
	cfg      JobWorkerConfig
	sem      *semaphore.Weighted

	// stopCtx is canceled on shutdown so jobs still waiting for a slot fail fast.
	stopCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewJobWorker creates a new JobWorker. Non-positive settings fall back to
// one job at a time, a 30 minute job timeout, one hour retention and a five
// minute cleanup interval.
func NewJobWorker(store port.JobStore, pipeline *Pipeline, cfg JobWorkerConfig) *JobWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	if cfg.RetentionTTL <= 0 {
		cfg.RetentionTTL = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	stopCtx, stop := context.WithCancel(context.Background())
	return &JobWorker{
		store:    store,
		pipeline: pipeline,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(cfg.Concurrency)),
		stopCtx:  stopCtx,
		stop:     stop,
	}
}

// Dispatch runs job in the background once a concurrency slot is free. A job
// that gets a slot here is admitted and runs to completion even if shutdown
// begins before its goroutine is scheduled; only jobs still waiting for a
// slot fail on shutdown.
func (w *JobWorker) Dispatch(job *domain.Job, conv Conversion) {
	if w.stopCtx.Err() != nil {
		log.Printf("jobWorker: job %s rejected: worker stopped", job.ID)
		_ = job.Fail("service is shutting down")
		return
	}

	admitted := w.sem.TryAcquire(1)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if !admitted {
			if err := w.sem.Acquire(w.stopCtx, 1); err != nil {
				log.Printf("jobWorker: job %s dropped before start: %v", job.ID, err)
				_ = job.Fail("service is shutting down")
				return
			}
		}
		defer w.sem.Release(1)

		// Use a fresh context so in-flight jobs complete even during shutdown.
		jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
		defer cancel()

		log.Printf("jobWorker: dispatching job %s (%s)", job.ID, job.OutputFormat)
		w.pipeline.Run(jobCtx, job, conv)
	}()
}

// Start runs the retention loop until ctx is canceled. It then blocks until
// all in-flight jobs have finished.
func (w *JobWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.CleanupInterval)
	defer ticker.Stop()

	log.Printf("jobWorker: started (concurrency=%d, jobTimeout=%s, retention=%s)",
		w.cfg.Concurrency, w.cfg.JobTimeout, w.cfg.RetentionTTL)

	for {
		select {
		case <-ctx.Done():
			log.Printf("jobWorker: shutting down, waiting for in-flight jobs...")
			w.Shutdown()
			log.Printf("jobWorker: shutdown complete")
			return
		case <-ticker.C:
			w.evict(ctx)
		}
	}
}

// Shutdown fails jobs still waiting for a slot and waits for running ones.
func (w *JobWorker) Shutdown() {
	w.stop()
	w.wg.Wait()
}

func (w *JobWorker) evict(ctx context.Context) {
	n, err := w.store.EvictFinishedBefore(ctx, time.Now().Add(-w.cfg.RetentionTTL))
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("jobWorker: eviction error: %v", err)
		}
		return
	}
	if n > 0 {
		log.Printf("jobWorker: evicted %d finished jobs", n)
	}
}

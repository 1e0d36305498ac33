package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repdf/internal/domain"
	"repdf/internal/jobstore/memory"
	"repdf/internal/service"
	"repdf/mocks"
)

func TestJobWorker_RunsSubmittedJobs(t *testing.T) {
	renderer := new(mocks.MockPageRenderer)
	extractor := new(mocks.MockRegionExtractor)
	renderer.On("Render", mock.Anything, mock.Anything).Return(renderedPages(2), nil)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(sampleRegions(), nil)

	store := memory.NewStore()
	worker := service.NewJobWorker(store, newPipeline(renderer, extractor, nil), service.JobWorkerConfig{Concurrency: 3})
	svc := service.NewConversionService(store, worker, 0)

	var ids []string
	for i := 0; i < 3; i++ {
		snap, err := svc.Submit(context.Background(), service.ConversionInput{FileName: "a.png", Data: pngBytes(t)})
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	worker.Shutdown()

	for _, id := range ids {
		snap, err := svc.Status(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStateDone, snap.State, snap.Error)
		assert.Equal(t, 2, snap.Progress.TotalPages)

		res, err := svc.Result(context.Background(), id)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Data)
	}
}

func TestJobWorker_ShutdownRightAfterSubmitFinishesAdmittedJob(t *testing.T) {
	renderer := new(mocks.MockPageRenderer)
	extractor := new(mocks.MockRegionExtractor)
	renderer.On("Render", mock.Anything, mock.Anything).Return(renderedPages(1), nil)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(sampleRegions(), nil)

	store := memory.NewStore()
	worker := service.NewJobWorker(store, newPipeline(renderer, extractor, nil), service.JobWorkerConfig{Concurrency: 8})
	svc := service.NewConversionService(store, worker, 0)

	snap, err := svc.Submit(context.Background(), service.ConversionInput{FileName: "a.png", Data: pngBytes(t)})
	require.NoError(t, err)
	worker.Shutdown()

	got, err := svc.Status(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateDone, got.State, got.Error)
}

func TestJobWorker_ShutdownFailsQueuedJob(t *testing.T) {
	release := make(chan struct{})
	renderer := new(mocks.MockPageRenderer)
	extractor := new(mocks.MockRegionExtractor)
	renderer.On("Render", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(renderedPages(1), nil)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(sampleRegions(), nil)

	store := memory.NewStore()
	worker := service.NewJobWorker(store, newPipeline(renderer, extractor, nil), service.JobWorkerConfig{Concurrency: 1})

	running := domain.NewJob("running", domain.OutputPPTX, "a.png")
	queued := domain.NewJob("queued", domain.OutputPPTX, "b.png")
	worker.Dispatch(running, pptxConversion())
	worker.Dispatch(queued, pptxConversion())

	stopped := make(chan struct{})
	go func() {
		worker.Shutdown()
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return queued.State() == domain.JobStateFailed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "service is shutting down", queued.Snapshot().Error)

	close(release)
	<-stopped
	assert.Equal(t, domain.JobStateDone, running.State(), running.Snapshot().Error)
}

func TestJobWorker_DispatchAfterShutdownFailsJob(t *testing.T) {
	store := memory.NewStore()
	worker := service.NewJobWorker(store, newPipeline(new(mocks.MockPageRenderer), new(mocks.MockRegionExtractor), nil), service.JobWorkerConfig{})
	worker.Shutdown()

	job := domain.NewJob("late", domain.OutputPPTX, "a.pdf")
	worker.Dispatch(job, pptxConversion())
	worker.Shutdown()

	snap := job.Snapshot()
	assert.Equal(t, domain.JobStateFailed, snap.State)
	assert.Equal(t, "service is shutting down", snap.Error)
}

func TestJobWorker_StartEvictsExpiredJobs(t *testing.T) {
	store := memory.NewStore()
	finished := domain.NewJob("finished", domain.OutputPPTX, "a.pdf")
	require.NoError(t, finished.Start())
	require.NoError(t, finished.Fail("boom"))
	running := domain.NewJob("running", domain.OutputPPTX, "b.pdf")
	require.NoError(t, running.Start())
	require.NoError(t, store.Put(context.Background(), finished))
	require.NoError(t, store.Put(context.Background(), running))

	worker := service.NewJobWorker(store, nil, service.JobWorkerConfig{
		RetentionTTL:    time.Nanosecond,
		CleanupInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	_, err := store.Get(context.Background(), "running")
	assert.NoError(t, err)
	_, err = store.Get(context.Background(), "finished")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

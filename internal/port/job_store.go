package port

import (
	"context"
	"time"

	"repdf/internal/domain"
)

// JobStore maps job ids to jobs for the lifetime of an orchestrator.
type JobStore interface {
	Put(ctx context.Context, job *domain.Job) error
	// Get returns domain.ErrJobNotFound for unknown ids.
	Get(ctx context.Context, id string) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
	// EvictFinishedBefore removes terminal jobs last updated before cutoff.
	EvictFinishedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

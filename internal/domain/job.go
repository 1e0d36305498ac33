package domain

import (
	"fmt"
	"sync"
	"time"
)

// Progress is the pollable progress of a job.
type Progress struct {
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	CurrentStep JobStep `json:"current_step"`
	Percent     int     `json:"percent"`
}

// Job tracks one asynchronous conversion. A single worker writes it;
// any number of readers take snapshots.
type Job struct {
	mu sync.RWMutex

	ID           string
	OutputFormat OutputFormat
	SourceName   string
	CreatedAt    time.Time

	state          JobState
	progress       Progress
	errMsg         string
	result         []byte
	resultLocation string
	updatedAt      time.Time
}

// NewJob creates a job in the pending state.
func NewJob(id string, format OutputFormat, sourceName string) *Job {
	now := time.Now()
	return &Job{
		ID:           id,
		OutputFormat: format,
		SourceName:   sourceName,
		CreatedAt:    now,
		state:        JobStatePending,
		progress:     Progress{CurrentStep: StepQueued},
		updatedAt:    now,
	}
}

// Start moves a pending job to processing.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != JobStatePending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, JobStateProcessing)
	}
	j.state = JobStateProcessing
	j.progress.CurrentStep = StepInit
	j.updatedAt = time.Now()
	return nil
}

// SetTotalPages records the number of pages selected for processing.
func (j *Job) SetTotalPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.TotalPages = n
	j.updatedAt = time.Now()
}

// Advance overwrites the current step and moves page and percent forward.
// Page and percent never decrease.
func (j *Job) Advance(step JobStep, page, percent int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != JobStateProcessing {
		return
	}
	j.progress.CurrentStep = step
	if page > j.progress.CurrentPage {
		j.progress.CurrentPage = page
	}
	if percent > 100 {
		percent = 100
	}
	if percent > j.progress.Percent {
		j.progress.Percent = percent
	}
	j.updatedAt = time.Now()
}

// Complete stores the finished document and moves the job to done.
func (j *Job) Complete(result []byte, location string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != JobStateProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, JobStateDone)
	}
	j.state = JobStateDone
	j.result = result
	j.resultLocation = location
	j.progress.Percent = 100
	j.updatedAt = time.Now()
	return nil
}

// Fail records msg and moves the job to failed. Terminal jobs are left untouched.
func (j *Job) Fail(msg string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, JobStateFailed)
	}
	j.state = JobStateFailed
	j.errMsg = msg
	j.updatedAt = time.Now()
	return nil
}

// State returns the current lifecycle state.
func (j *Job) State() JobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// Result returns the finished document bytes, or ErrJobNotReady before done.
func (j *Job) Result() ([]byte, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.state != JobStateDone {
		return nil, ErrJobNotReady
	}
	return j.result, nil
}

// UpdatedAt returns the time of the last mutation.
func (j *Job) UpdatedAt() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.updatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID             string       `json:"job_id"`
	State          JobState     `json:"state"`
	Progress       Progress     `json:"progress"`
	Error          string       `json:"error,omitempty"`
	OutputFormat   OutputFormat `json:"output_format"`
	ResultLocation string       `json:"result_location,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Snapshot returns a self-consistent copy of the job state.
// ResultLocation is only populated once the job is done.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := JobSnapshot{
		ID:           j.ID,
		State:        j.state,
		Progress:     j.progress,
		Error:        j.errMsg,
		OutputFormat: j.OutputFormat,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.updatedAt,
	}
	if j.state == JobStateDone {
		s.ResultLocation = j.resultLocation
	}
	return s
}

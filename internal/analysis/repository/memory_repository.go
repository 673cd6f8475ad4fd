package repository

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type jobMemoryRepo struct {
	mu    sync.RWMutex
	jobs  map[string]*models.Job
	order []string
}

func NewJobMemoryRepo() analysis.JobRepository {
	return &jobMemoryRepo{
		jobs: make(map[string]*models.Job),
	}
}

func (r *jobMemoryRepo) CreateJob(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.SessionID]; ok {
		return analysis.ErrJobExists
	}
	stored := job.Clone()
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.jobs[job.SessionID] = stored
	r.order = append(r.order, job.SessionID)
	return nil
}

func (r *jobMemoryRepo) GetJob(_ context.Context, sessionID string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[sessionID]
	if !ok {
		return nil, analysis.ErrJobNotFound
	}
	return job.Clone(), nil
}

func (r *jobMemoryRepo) ListJobs(_ context.Context) ([]*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]*models.Job, 0, len(r.order))
	for _, id := range r.order {
		jobs = append(jobs, r.jobs[id].Clone())
	}
	return jobs, nil
}

func (r *jobMemoryRepo) UpdateStatus(_ context.Context, sessionID string, status models.JobStatus) error {
	return r.mutate(sessionID, func(job *models.Job, now time.Time) {
		applyStatus(job, status, now)
	})
}

func (r *jobMemoryRepo) UpdateProgress(_ context.Context, sessionID string, progress int) error {
	return r.mutate(sessionID, func(job *models.Job, now time.Time) {
		applyProgress(job, progress, now)
	})
}

func (r *jobMemoryRepo) CompleteJob(_ context.Context, sessionID string, result models.JobResult) error {
	return r.mutate(sessionID, func(job *models.Job, now time.Time) {
		applyComplete(job, result, now)
	})
}

func (r *jobMemoryRepo) FailJob(_ context.Context, sessionID string, message string) error {
	return r.mutate(sessionID, func(job *models.Job, now time.Time) {
		applyFail(job, message, now)
	})
}

func (r *jobMemoryRepo) mutate(sessionID string, fn func(job *models.Job, now time.Time)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[sessionID]
	if !ok {
		return analysis.ErrJobNotFound
	}
	fn(job, time.Now())
	return nil
}

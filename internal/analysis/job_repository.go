package analysis

import (
	"context"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

// JobRepository holds the status of every job in the process. Each entry has
// a single writer, the worker running that job; readers may see any
// intermediate state. Entries are never deleted.
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, sessionID string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)

	UpdateStatus(ctx context.Context, sessionID string, status models.JobStatus) error
	// UpdateProgress never lowers the stored progress.
	UpdateProgress(ctx context.Context, sessionID string, progress int) error
	CompleteJob(ctx context.Context, sessionID string, result models.JobResult) error
	FailJob(ctx context.Context, sessionID string, message string) error
}

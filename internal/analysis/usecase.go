package analysis

import (
	"context"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type UseCase interface {
	Upload(ctx context.Context, input *models.VideoUploadInput) (*models.UploadResponse, error)
	GetStatus(ctx context.Context, sessionID string) (*models.Job, error)
	ListSessions(ctx context.Context) (*models.JobList, error)
	// GetOutput resolves the rendered file of a completed job. When remote is
	// set and the output was archived, RemoteURL is a presigned link.
	GetOutput(ctx context.Context, sessionID string, remote bool) (*models.OutputFile, error)
}

// Submitter runs the pipeline for a job in the background.
type Submitter interface {
	Submit(spec models.JobSpec) *models.Task
}

package repository

import (
	"context"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/events"
	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type publishingJobRepo struct {
	analysis.JobRepository
	publisher events.Publisher
}

// NewPublishingJobRepo wraps repo so that every successful write is also
// announced on publisher.
func NewPublishingJobRepo(repo analysis.JobRepository, publisher events.Publisher) analysis.JobRepository {
	return &publishingJobRepo{JobRepository: repo, publisher: publisher}
}

func (r *publishingJobRepo) UpdateStatus(ctx context.Context, sessionID string, status models.JobStatus) error {
	if err := r.JobRepository.UpdateStatus(ctx, sessionID, status); err != nil {
		return err
	}
	r.publishCurrent(ctx, sessionID, "status", "")
	return nil
}

func (r *publishingJobRepo) UpdateProgress(ctx context.Context, sessionID string, progress int) error {
	if err := r.JobRepository.UpdateProgress(ctx, sessionID, progress); err != nil {
		return err
	}
	r.publishCurrent(ctx, sessionID, "progress", "")
	return nil
}

func (r *publishingJobRepo) CompleteJob(ctx context.Context, sessionID string, result models.JobResult) error {
	if err := r.JobRepository.CompleteJob(ctx, sessionID, result); err != nil {
		return err
	}
	r.publishCurrent(ctx, sessionID, "status", "")
	return nil
}

func (r *publishingJobRepo) FailJob(ctx context.Context, sessionID string, message string) error {
	if err := r.JobRepository.FailJob(ctx, sessionID, message); err != nil {
		return err
	}
	r.publishCurrent(ctx, sessionID, "status", message)
	return nil
}

func (r *publishingJobRepo) publishCurrent(ctx context.Context, sessionID, eventType, message string) {
	job, err := r.JobRepository.GetJob(ctx, sessionID)
	if err != nil {
		return
	}
	r.publisher.Publish(sessionID, events.Event{
		Type:      eventType,
		SessionID: sessionID,
		Status:    job.Status,
		Progress:  job.Progress,
		Message:   message,
	})
}

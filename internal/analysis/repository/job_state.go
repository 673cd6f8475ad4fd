package repository

import (
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

// The apply helpers hold the transition rules shared by every store:
// terminal jobs are frozen and progress only moves forward.

func applyStatus(job *models.Job, status models.JobStatus, now time.Time) {
	if job.Status.IsTerminal() {
		return
	}
	job.Status = status
	job.UpdatedAt = now
}

func applyProgress(job *models.Job, progress int, now time.Time) {
	if job.Status.IsTerminal() {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress > job.Progress {
		job.Progress = progress
		job.UpdatedAt = now
	}
}

func applyComplete(job *models.Job, result models.JobResult, now time.Time) {
	if job.Status.IsTerminal() {
		return
	}
	info := result.VideoInfo
	job.Status = models.JobStatusCompleted
	job.Progress = 100
	job.OutputPath = result.OutputPath
	job.OutputKey = result.OutputKey
	job.Commentary = append([]models.CommentaryEvent(nil), result.Commentary...)
	job.VideoInfo = &info
	job.Error = ""
	job.UpdatedAt = now
	job.CompletedAt = &now
}

func applyFail(job *models.Job, message string, now time.Time) {
	if job.Status.IsTerminal() {
		return
	}
	job.Status = models.JobStatusError
	job.Error = message
	job.UpdatedAt = now
	job.CompletedAt = &now
}

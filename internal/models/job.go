package models

import (
	"io"
	"time"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

type Job struct {
	SessionID   string            `json:"session_id" redis:"session_id"`
	Status      JobStatus         `json:"status" redis:"status"`
	Progress    int               `json:"progress" redis:"progress"`
	Filename    string            `json:"filename,omitempty" redis:"filename"`
	OutputPath  string            `json:"output_path,omitempty" redis:"output_path"`
	OutputKey   string            `json:"output_key,omitempty" redis:"output_key"`
	Commentary  []CommentaryEvent `json:"commentary,omitempty" redis:"-"`
	VideoInfo   *VideoMetadata    `json:"video_info,omitempty" redis:"-"`
	Error       string            `json:"error,omitempty" redis:"error"`
	CreatedAt   time.Time         `json:"created_at" redis:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" redis:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" redis:"-"`
}

// Clone returns a deep copy so readers never share slices with the writer.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Commentary != nil {
		c.Commentary = make([]CommentaryEvent, len(j.Commentary))
		copy(c.Commentary, j.Commentary)
	}
	if j.VideoInfo != nil {
		info := *j.VideoInfo
		c.VideoInfo = &info
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func (j *Job) Summary() JobSummary {
	return JobSummary{
		SessionID: j.SessionID,
		Status:    j.Status,
		Progress:  j.Progress,
		Filename:  j.Filename,
		CreatedAt: j.CreatedAt,
	}
}

type JobSummary struct {
	SessionID string    `json:"session_id"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Filename  string    `json:"filename,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type JobList struct {
	Sessions []JobSummary `json:"sessions"`
	Total    int          `json:"total"`
}

// JobResult is what a successful pipeline run leaves on the job.
type JobResult struct {
	OutputPath string
	OutputKey  string
	Commentary []CommentaryEvent
	VideoInfo  VideoMetadata
}

type VideoUploadInput struct {
	Filename   string    `json:"filename" validate:"required,video_ext"`
	Credential string    `json:"-"`
	File       io.Reader `json:"-" validate:"required"`
}

type UploadResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/go-redis/redis/v8"
)

type jobRedisRepo struct {
	redisClient *redis.Client
	prefix      string
}

// NewJobRedisRepo keeps each job in a hash at prefix+sessionID with the
// fields status, progress and job_data, and indexes ids in a sorted set by
// creation time.
func NewJobRedisRepo(redisClient *redis.Client, prefix string) analysis.JobRepository {
	return &jobRedisRepo{
		redisClient: redisClient,
		prefix:      prefix,
	}
}

func (r *jobRedisRepo) jobKey(sessionID string) string {
	return r.prefix + sessionID
}

func (r *jobRedisRepo) indexKey() string {
	return r.prefix + "index"
}

func (r *jobRedisRepo) CreateJob(ctx context.Context, job *models.Job) error {
	stored := job.Clone()
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	jobData, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	created, err := r.redisClient.HSetNX(ctx, r.jobKey(job.SessionID), "job_data", jobData).Result()
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	if !created {
		return analysis.ErrJobExists
	}

	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, r.jobKey(job.SessionID), "status", string(stored.Status), "progress", stored.Progress)
	pipe.ZAdd(ctx, r.indexKey(), &redis.Z{Score: float64(stored.CreatedAt.UnixNano()), Member: job.SessionID})
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index job: %w", err)
	}
	return nil
}

func (r *jobRedisRepo) GetJob(ctx context.Context, sessionID string) (*models.Job, error) {
	jobData, err := r.redisClient.HGet(ctx, r.jobKey(sessionID), "job_data").Result()
	if errors.Is(err, redis.Nil) {
		return nil, analysis.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job data: %w", err)
	}
	job := &models.Job{}
	if err := json.Unmarshal([]byte(jobData), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job data: %w", err)
	}
	return job, nil
}

func (r *jobRedisRepo) ListJobs(ctx context.Context) ([]*models.Job, error) {
	ids, err := r.redisClient.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Job{}, nil
	}

	pipe := r.redisClient.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGet(ctx, r.jobKey(id), "job_data")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	jobs := make([]*models.Job, 0, len(ids))
	for _, cmd := range cmds {
		jobData, err := cmd.Result()
		if err != nil {
			continue
		}
		job := &models.Job{}
		if err := json.Unmarshal([]byte(jobData), job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *jobRedisRepo) UpdateStatus(ctx context.Context, sessionID string, status models.JobStatus) error {
	return r.mutate(ctx, sessionID, func(job *models.Job, now time.Time) {
		applyStatus(job, status, now)
	})
}

func (r *jobRedisRepo) UpdateProgress(ctx context.Context, sessionID string, progress int) error {
	return r.mutate(ctx, sessionID, func(job *models.Job, now time.Time) {
		applyProgress(job, progress, now)
	})
}

func (r *jobRedisRepo) CompleteJob(ctx context.Context, sessionID string, result models.JobResult) error {
	return r.mutate(ctx, sessionID, func(job *models.Job, now time.Time) {
		applyComplete(job, result, now)
	})
}

func (r *jobRedisRepo) FailJob(ctx context.Context, sessionID string, message string) error {
	return r.mutate(ctx, sessionID, func(job *models.Job, now time.Time) {
		applyFail(job, message, now)
	})
}

// mutate is a read-modify-write without WATCH; it relies on the single
// writer per job.
func (r *jobRedisRepo) mutate(ctx context.Context, sessionID string, fn func(job *models.Job, now time.Time)) error {
	job, err := r.GetJob(ctx, sessionID)
	if err != nil {
		return err
	}
	fn(job, time.Now())

	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal updated job: %w", err)
	}

	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, r.jobKey(sessionID), "status", string(job.Status), "progress", job.Progress, "job_data", jobData)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

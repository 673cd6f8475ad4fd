package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/events"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) analysis.JobRepository {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewJobRedisRepo(client, "analysis:job:")
}

var stores = []struct {
	name string
	new  func(t *testing.T) analysis.JobRepository
}{
	{"memory", func(*testing.T) analysis.JobRepository { return NewJobMemoryRepo() }},
	{"redis", newRedisRepo},
}

func queuedJob(id string) *models.Job {
	return &models.Job{SessionID: id, Status: models.JobStatusQueued, Filename: "game.mp4"}
}

func TestJobRepository_Lifecycle(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			ctx := context.Background()
			repo := st.new(t)

			_, err := repo.GetJob(ctx, "s1")
			assert.ErrorIs(t, err, analysis.ErrJobNotFound)

			require.NoError(t, repo.CreateJob(ctx, queuedJob("s1")))
			assert.ErrorIs(t, repo.CreateJob(ctx, queuedJob("s1")), analysis.ErrJobExists)

			job, err := repo.GetJob(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusQueued, job.Status)
			assert.Equal(t, 0, job.Progress)
			assert.False(t, job.CreatedAt.IsZero())

			require.NoError(t, repo.UpdateStatus(ctx, "s1", models.JobStatusProcessing))
			require.NoError(t, repo.UpdateProgress(ctx, "s1", 40))
			require.NoError(t, repo.UpdateProgress(ctx, "s1", 20))

			job, err = repo.GetJob(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusProcessing, job.Status)
			assert.Equal(t, 40, job.Progress, "progress must not go backwards")

			result := models.JobResult{
				OutputPath: "outputs/analyzed_s1.mp4",
				Commentary: []models.CommentaryEvent{{Action: "Shot", Feedback: "Arc", Timestamp: 2, Category: models.CategoryTechnical}},
				VideoInfo:  models.NewVideoMetadata(30, 640, 480, 300),
			}
			require.NoError(t, repo.CompleteJob(ctx, "s1", result))

			job, err = repo.GetJob(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusCompleted, job.Status)
			assert.Equal(t, 100, job.Progress)
			assert.Equal(t, "outputs/analyzed_s1.mp4", job.OutputPath)
			assert.Equal(t, result.Commentary, job.Commentary)
			require.NotNil(t, job.VideoInfo)
			assert.Equal(t, 300, job.VideoInfo.TotalFrames)
			assert.NotNil(t, job.CompletedAt)

			// terminal jobs are frozen
			require.NoError(t, repo.FailJob(ctx, "s1", "late failure"))
			job, err = repo.GetJob(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusCompleted, job.Status)
			assert.Empty(t, job.Error)
		})
	}
}

func TestJobRepository_Fail(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			ctx := context.Background()
			repo := st.new(t)
			require.NoError(t, repo.CreateJob(ctx, queuedJob("s1")))
			require.NoError(t, repo.UpdateProgress(ctx, "s1", 20))

			require.NoError(t, repo.FailJob(ctx, "s1", "probe video: no such file"))

			job, err := repo.GetJob(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusError, job.Status)
			assert.Equal(t, "probe video: no such file", job.Error)
			assert.Equal(t, 20, job.Progress)

			require.NoError(t, repo.UpdateProgress(ctx, "s1", 90))
			job, _ = repo.GetJob(ctx, "s1")
			assert.Equal(t, 20, job.Progress)
		})
	}
}

func TestJobRepository_UnknownSession(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			ctx := context.Background()
			repo := st.new(t)
			assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", models.JobStatusProcessing), analysis.ErrJobNotFound)
			assert.ErrorIs(t, repo.UpdateProgress(ctx, "nope", 10), analysis.ErrJobNotFound)
			assert.ErrorIs(t, repo.CompleteJob(ctx, "nope", models.JobResult{}), analysis.ErrJobNotFound)
			assert.ErrorIs(t, repo.FailJob(ctx, "nope", "x"), analysis.ErrJobNotFound)
		})
	}
}

func TestJobRepository_ListInCreationOrder(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			ctx := context.Background()
			repo := st.new(t)
			for i := 0; i < 3; i++ {
				require.NoError(t, repo.CreateJob(ctx, queuedJob(fmt.Sprintf("s%d", i))))
			}

			jobs, err := repo.ListJobs(ctx)
			require.NoError(t, err)
			require.Len(t, jobs, 3)
			for i, j := range jobs {
				assert.Equal(t, fmt.Sprintf("s%d", i), j.SessionID)
			}
		})
	}
}

func TestJobMemoryRepo_ReadersGetCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewJobMemoryRepo()
	require.NoError(t, repo.CreateJob(ctx, queuedJob("s1")))
	require.NoError(t, repo.CompleteJob(ctx, "s1", models.JobResult{
		Commentary: []models.CommentaryEvent{{Action: "Shot"}},
	}))

	job, err := repo.GetJob(ctx, "s1")
	require.NoError(t, err)
	job.Commentary[0].Action = "mutated"
	job.Progress = 3

	again, err := repo.GetJob(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Shot", again.Commentary[0].Action)
	assert.Equal(t, 100, again.Progress)
}

func TestJobMemoryRepo_ConcurrentJobs(t *testing.T) {
	ctx := context.Background()
	repo := NewJobMemoryRepo()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("s%d", i)
		require.NoError(t, repo.CreateJob(ctx, queuedJob(id)))
		wg.Add(2)
		go func() {
			defer wg.Done()
			for p := 0; p <= 100; p += 10 {
				_ = repo.UpdateProgress(ctx, id, p)
			}
			_ = repo.CompleteJob(ctx, id, models.JobResult{})
		}()
		go func() {
			defer wg.Done()
			last := 0
			for k := 0; k < 50; k++ {
				job, err := repo.GetJob(ctx, id)
				if err != nil {
					continue
				}
				assert.GreaterOrEqual(t, job.Progress, last)
				last = job.Progress
			}
		}()
	}
	wg.Wait()

	jobs, err := repo.ListJobs(ctx)
	require.NoError(t, err)
	for _, j := range jobs {
		assert.Equal(t, models.JobStatusCompleted, j.Status)
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(sessionID string, event events.Event) {
	m.Called(sessionID, event)
}

func TestPublishingJobRepo(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	pub.On("Publish", "s1", events.Event{Type: "status", SessionID: "s1", Status: models.JobStatusProcessing}).Once()
	pub.On("Publish", "s1", events.Event{Type: "progress", SessionID: "s1", Status: models.JobStatusProcessing, Progress: 20}).Once()
	pub.On("Publish", "s1", events.Event{Type: "status", SessionID: "s1", Status: models.JobStatusError, Progress: 20, Message: "boom"}).Once()

	repo := NewPublishingJobRepo(NewJobMemoryRepo(), pub)
	require.NoError(t, repo.CreateJob(ctx, queuedJob("s1")))
	require.NoError(t, repo.UpdateStatus(ctx, "s1", models.JobStatusProcessing))
	require.NoError(t, repo.UpdateProgress(ctx, "s1", 20))
	require.NoError(t, repo.FailJob(ctx, "s1", "boom"))

	assert.ErrorIs(t, repo.UpdateProgress(ctx, "missing", 10), analysis.ErrJobNotFound)
	pub.AssertExpectations(t)
	pub.AssertNumberOfCalls(t, "Publish", 3)
}

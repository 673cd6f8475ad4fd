package worker

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
	"github.com/amankumarsingh77/hoopcast/pkg/utils"
)

// Worker runs every submitted job in its own goroutine. When
// Pipeline.MaxConcurrentJobs is set, at most that many run at a time.
type Worker struct {
	cfg      *config.Config
	pipeline *Pipeline
	logger   logger.Logger
	slots    chan struct{}
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewWorker(cfg *config.Config, pipeline *Pipeline, logger logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	if n := cfg.Pipeline.MaxConcurrentJobs; n > 0 {
		w.slots = make(chan struct{}, n)
	}
	return w
}

// Submit starts spec and returns immediately. With a concurrency limit the
// job stays queued until a slot is free.
func (w *Worker) Submit(spec models.JobSpec) *models.Task {
	task := models.NewTask(spec.SessionID)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if err := w.ctx.Err(); err != nil {
			task.Finish(w.pipeline.abandon(spec, err))
			return
		}
		if w.slots != nil {
			select {
			case w.slots <- struct{}{}:
			case <-w.ctx.Done():
				task.Finish(w.pipeline.abandon(spec, w.ctx.Err()))
				return
			}
			defer func() { <-w.slots }()
		}

		if ok, usage := utils.CheckCPUUsage(w.cfg.Pipeline.MaxCPUUsage); !ok {
			w.logger.Warnf("Submit - CPU usage is high (%.1f%%), starting %s anyway", usage, spec.SessionID)
		}

		start := time.Now()
		err := w.pipeline.Run(w.ctx, spec)
		if err != nil {
			w.logger.Errorf("Submit - session %s failed after %s: %v", spec.SessionID, time.Since(start), err)
		}
		task.Finish(err)
	}()
	return task
}

// Shutdown stops accepting work, cancels running jobs and waits for them to
// record their final state, or for ctx to end.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

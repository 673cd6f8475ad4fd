package models

import (
	"context"
	"sync"
)

// JobSpec is everything the pipeline needs to process one upload.
type JobSpec struct {
	SessionID  string
	InputPath  string
	OutputPath string
	Credential string
}

// Task is the handle returned when a job is submitted. Job state itself is
// observed through the job store; Task only signals that the worker is done.
type Task struct {
	SessionID string

	done chan struct{}
	once sync.Once
	err  error
}

func NewTask(sessionID string) *Task {
	return &Task{SessionID: sessionID, done: make(chan struct{})}
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Finish records the run's outcome and releases waiters. Only the first call counts.
func (t *Task) Finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Err is the pipeline error, valid after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OutputFile describes a rendered video ready to be served.
type OutputFile struct {
	Path      string
	Name      string
	RemoteURL string
}

package selection

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"tableflip.dev/tasks/pkg/task"
)

// Reader reads a task by id.
type Reader interface {
	TaskDetail(ctx context.Context, id int64) (task.Task, error)
}

// Fetcher is the production DetailFetcher. It waits out a latency floor,
// then reads through one of a fixed number of worker slots.
type Fetcher struct {
	reader  Reader
	latency time.Duration
	slots   *semaphore.Weighted
}

var _ DetailFetcher = (*Fetcher)(nil)

// NewFetcher reads through r with at most workers reads in flight.
func NewFetcher(r Reader, latency time.Duration, workers int) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		reader:  r,
		latency: latency,
		slots:   semaphore.NewWeighted(int64(workers)),
	}
}

// Fetch reads task id unless superseded reports true once a slot is free.
func (f *Fetcher) Fetch(ctx context.Context, id int64, superseded func() bool) (task.Task, error) {
	if f.latency > 0 {
		timer := time.NewTimer(f.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return task.Task{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := f.slots.Acquire(ctx, 1); err != nil {
		return task.Task{}, err
	}
	defer f.slots.Release(1)

	if superseded != nil && superseded() {
		return task.Task{}, ErrSuperseded
	}
	return f.reader.TaskDetail(ctx, id)
}

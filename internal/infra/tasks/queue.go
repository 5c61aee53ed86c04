// Package tasks runs deferred work on an in-process queue. Tasks are
// best-effort: executed at most once, never retried, never persisted.
package tasks

import (
	"context"
	"log/slog"
	"sync"

	"chatter/config"
	"chatter/internal/domain/service"
)

const defaultQueueSize = 64

type queuedTask struct {
	name string
	task service.Task
}

// queue implements service.TaskQueue with a buffered channel drained by a
// single worker goroutine.
type queue struct {
	tasks     chan queuedTask
	logger    *slog.Logger
	closeOnce sync.Once
	done      chan struct{}
}

// NewQueue is the constructor for the task queue. The worker starts
// immediately and runs until Close is called.
func NewQueue(cfg *config.Config, logger *slog.Logger) service.TaskQueue {
	size := cfg.Tasks.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	q := &queue{
		tasks:  make(chan queuedTask, size),
		logger: logger,
		done:   make(chan struct{}),
	}

	go q.worker()

	return q
}

// Enqueue schedules a task without blocking the caller. A full queue drops
// the task; the request that scheduled it has already succeeded, so the
// loss is logged and nothing else happens.
func (q *queue) Enqueue(name string, task service.Task) {
	defer func() {
		// Enqueue after Close panics on the closed channel; treat it as a drop.
		if r := recover(); r != nil {
			q.logger.Warn("Task enqueued after queue close, dropping", slog.String("task", name))
		}
	}()

	select {
	case q.tasks <- queuedTask{name: name, task: task}:
	default:
		q.logger.Warn("Task queue full, dropping task", slog.String("task", name))
	}
}

// Close stops accepting new tasks and waits for the worker to drain what is
// already queued.
func (q *queue) Close() error {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})
	<-q.done

	return nil
}

func (q *queue) worker() {
	defer close(q.done)

	for item := range q.tasks {
		q.run(item)
	}
}

func (q *queue) run(item queuedTask) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Task panicked",
				slog.String("task", item.name),
				slog.Any("panic", r),
			)
		}
	}()

	if err := item.task(context.Background()); err != nil {
		q.logger.Error("Task failed",
			slog.String("task", item.name),
			slog.Any("error", err),
		)

		return
	}

	q.logger.Debug("Task completed", slog.String("task", item.name))
}

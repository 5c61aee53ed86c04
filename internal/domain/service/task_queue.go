package service

import "context"

// Task is a deferred unit of work executed after the triggering request's
// response has been sent.
type Task func(ctx context.Context) error

// TaskQueue separates enqueueing (synchronous, part of request handling) from
// execution (asynchronous, best-effort, independently failable). The contract
// is at-most-once: a task is attempted one time, its failure is logged and
// swallowed, and nothing is persisted across restarts.
type TaskQueue interface {
	// Enqueue schedules a task for background execution. It never blocks the
	// request path; when the queue is full the task is dropped and logged.
	Enqueue(name string, task Task)

	// Close stops accepting tasks and waits for in-flight work to finish.
	Close() error
}

package taskqueue

import (
	"context"
	"time"
)

// TaskType identifies what the worker should do.
type TaskType string

const (
	TaskTypeBootstrap TaskType = "bootstrap"
	TaskTypeSignIn    TaskType = "sign-in"
	TaskTypeCheckout  TaskType = "checkout"
)

// Task represents a collaborator call scheduled by a wizard session.
type Task struct {
	ID        string
	Type      TaskType
	SessionID string

	// Payload is task-type specific:
	//   - bootstrap: nil
	//   - sign-in: api.Credentials
	//   - checkout: api.WizardState snapshot taken at completion
	Payload any

	EnqueuedAt time.Time
}

// Queue is a simple async task queue interface.
type Queue interface {
	// Enqueue adds a task to the queue. It should respect ctx for cancellation.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue removes and returns the next task, blocking until one is available
	// or the context is cancelled.
	Dequeue(ctx context.Context) (*Task, error)

	// Len returns the approximate number of tasks queued.
	Len() int
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/wizflow/internal/taskqueue"
)

// Executor runs a single task. The wizard engine implements it.
type Executor interface {
	Execute(ctx context.Context, t taskqueue.Task) error
}

// Worker pulls tasks from a Queue and hands them to an Executor.
type Worker struct {
	exec  Executor
	queue taskqueue.Queue
}

// New creates a new Worker.
func New(exec Executor, queue taskqueue.Queue) *Worker {
	return &Worker{
		exec:  exec,
		queue: queue,
	}
}

// EnqueueBootstrap enqueues the delivery options fetch for a session.
// It does NOT perform the fetch itself; that is done by ProcessOne.
func (w *Worker) EnqueueBootstrap(ctx context.Context, sessionID string) error {
	t := taskqueue.Task{
		ID:         uuid.NewString(),
		Type:       taskqueue.TaskTypeBootstrap,
		SessionID:  sessionID,
		EnqueuedAt: time.Now(),
	}
	return w.queue.Enqueue(ctx, t)
}

// ProcessOne pulls a single task from the queue and executes it.
// Returns (processed, error):
//   - processed == false: no task was obtained (ctx cancelled or dequeue failed)
//   - processed == true: a task was executed; err is the executor's result
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	switch task.Type {
	case taskqueue.TaskTypeBootstrap, taskqueue.TaskTypeSignIn, taskqueue.TaskTypeCheckout:
		if err := w.exec.Execute(ctx, *task); err != nil {
			return true, fmt.Errorf("%s task %s: %w", task.Type, task.ID, err)
		}
		return true, nil

	default:
		// Unknown task type; mark as processed but return an error so this isn't silently ignored.
		return true, errors.New("unknown task type: " + string(task.Type))
	}
}

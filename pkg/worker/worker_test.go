package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petrijr/wizflow/internal/taskqueue"
)

type recordingExecutor struct {
	mu    sync.Mutex
	tasks []taskqueue.Task
	err   error
}

func (e *recordingExecutor) Execute(ctx context.Context, t taskqueue.Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, t)
	return e.err
}

func TestWorker_ProcessesBootstrapTask(t *testing.T) {
	ctx := context.Background()
	exec := &recordingExecutor{}
	queue := taskqueue.NewInMemoryQueue(10)
	w := New(exec, queue)

	if err := w.EnqueueBootstrap(ctx, "session-1"); err != nil {
		t.Fatalf("EnqueueBootstrap failed: %v", err)
	}
	if len(exec.tasks) != 0 {
		t.Fatalf("expected no execution before ProcessOne, got %d", len(exec.tasks))
	}

	processed, err := w.ProcessOne(ctx)
	if err != nil {
		t.Fatalf("ProcessOne failed: %v", err)
	}
	if !processed {
		t.Fatalf("expected a task to be processed")
	}

	if len(exec.tasks) != 1 {
		t.Fatalf("expected 1 executed task, got %d", len(exec.tasks))
	}
	got := exec.tasks[0]
	if got.Type != taskqueue.TaskTypeBootstrap || got.SessionID != "session-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.ID == "" {
		t.Fatalf("expected task id to be set")
	}
}

func TestWorker_WrapsExecutorError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	exec := &recordingExecutor{err: boom}
	queue := taskqueue.NewInMemoryQueue(10)
	w := New(exec, queue)

	if err := queue.Enqueue(ctx, taskqueue.Task{ID: "t1", Type: taskqueue.TaskTypeSignIn}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	processed, err := w.ProcessOne(ctx)
	if !processed {
		t.Fatalf("expected task to be processed")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped executor error, got %v", err)
	}
}

func TestWorker_UnknownTaskType(t *testing.T) {
	ctx := context.Background()
	exec := &recordingExecutor{}
	queue := taskqueue.NewInMemoryQueue(10)
	w := New(exec, queue)

	if err := queue.Enqueue(ctx, taskqueue.Task{ID: "t1", Type: "mystery"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	processed, err := w.ProcessOne(ctx)
	if !processed || err == nil {
		t.Fatalf("expected processed task with error, got processed=%v err=%v", processed, err)
	}
	if len(exec.tasks) != 0 {
		t.Fatalf("executor must not see unknown tasks")
	}
}

func TestWorker_ProcessOneHonorsContext(t *testing.T) {
	w := New(&recordingExecutor{}, taskqueue.NewInMemoryQueue(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	processed, err := w.ProcessOne(ctx)
	if processed {
		t.Fatalf("expected nothing processed on empty queue")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

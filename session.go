package wizflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/petrijr/wizflow/internal/engine"
	"github.com/petrijr/wizflow/internal/taskqueue"
	"github.com/petrijr/wizflow/pkg/api"
	"github.com/petrijr/wizflow/pkg/worker"
)

var ErrSessionStarted = errors.New("wizflow: session already started")

// Session bundles a wizard engine, an in-memory task queue and a pool of
// workers that perform the collaborator calls in the background.
//
// Typical usage:
//
//	sess, err := wizflow.NewSession().
//	    WithBackend(backend).
//	    WithUsers(backend).
//	    Build()
//	...
//	_ = sess.Start(ctx)
//	defer sess.Close()
//
//	_, _ = sess.Dispatch(ctx, wizflow.NextButtonClicked{})
type Session struct {
	engine  *engine.Engine
	queue   taskqueue.Queue
	worker  *worker.Worker
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	closed  bool
}

var _ api.Engine = (*Session)(nil)

// ID returns the session identifier.
func (s *Session) ID() string { return s.engine.ID() }

// Dispatch applies ev and returns the new state.
func (s *Session) Dispatch(ctx context.Context, ev api.Event) (api.WizardState, error) {
	return s.engine.Dispatch(ctx, ev)
}

// State returns the current state snapshot.
func (s *Session) State() api.WizardState { return s.engine.State() }

// Subscribe registers fn for state updates. fn may dispatch further events.
func (s *Session) Subscribe(fn func(api.WizardState)) (cancel func()) {
	return s.engine.Subscribe(fn)
}

// Bootstrap fetches delivery options synchronously. It shares the backend
// call with the bootstrap task queued by Start.
func (s *Session) Bootstrap(ctx context.Context) (api.DeliveryDetails, error) {
	return s.engine.Bootstrap(ctx)
}

// Start launches the worker goroutines and queues the delivery options
// fetch. The workers run until Close, or until ctx is cancelled.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return api.ErrSessionClosed
	}
	if s.running {
		return ErrSessionStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go s.loop(ctx)
	}

	return s.worker.EnqueueBootstrap(ctx, s.engine.ID())
}

func (s *Session) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		processed, err := s.worker.ProcessOne(ctx)
		if err != nil {
			// Only cancellation of the loop itself ends it.
			if ctx.Err() != nil {
				return
			}
			// A single failing task must not kill the loop.
			s.logger.ErrorContext(ctx, "worker_error",
				slog.String("session_id", s.engine.ID()),
				slog.Any("error", err),
			)
			continue
		}
		if !processed {
			continue
		}
	}
}

// Pending returns the number of queued collaborator calls.
func (s *Session) Pending() int { return s.queue.Len() }

// Close ends the session, cancels in-flight calls and waits for the workers
// to exit. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	err := s.engine.Close()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return err
}

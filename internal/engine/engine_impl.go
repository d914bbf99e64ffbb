package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/petrijr/wizflow/internal/taskqueue"
	"github.com/petrijr/wizflow/pkg/api"
)

// Collaborator call names reported to observers.
const (
	CallFetchDeliveryOptions = "fetch_delivery_options"
	CallSignIn               = "sign_in"
	CallCheckout             = "checkout"
)

const bootstrapKey = "bootstrap"

var (
	ErrNoBackend  = errors.New("engine: backend is required")
	ErrNoQueue    = errors.New("engine: task queue is required")
	ErrNilEvent   = errors.New("engine: nil event")
	ErrNoProfile  = errors.New("engine: sign-in succeeded but no user was published")
	errBadPayload = errors.New("engine: invalid task payload")
)

// Config describes how to construct an Engine.
type Config struct {
	// SessionID is generated when empty.
	SessionID string

	Backend  api.Backend
	Users    api.UserSource
	Checkout api.CheckoutFunc
	Observer api.Observer

	// Queue receives the tasks for collaborator calls. Something must drain
	// it (see pkg/worker) or sign-in and checkout never happen.
	Queue taskqueue.Queue

	Policy api.Policy
	Retry  api.RetryPolicy

	DefaultCountry api.Country
	PhoneValidator api.PhoneValidator
}

type subscriber struct {
	id int
	fn func(api.WizardState)
}

// transition is one applied event waiting to be announced.
type transition struct {
	ctx     context.Context
	ev      api.Event
	prev    api.WizardState
	next    api.WizardState
	subs    []subscriber
	elapsed time.Duration
}

// Engine owns the state of one wizard session. It is the only writer of the
// state tree: every change goes through Dispatch, one event at a time.
type Engine struct {
	id       string
	env      Env
	backend  api.Backend
	users    api.UserSource
	checkout api.CheckoutFunc
	observer api.Observer
	queue    taskqueue.Queue
	retry    api.RetryPolicy

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex // guards the fields below
	state   api.WizardState
	closed  bool
	loaded  bool
	subs    []subscriber
	nextSub int

	// outbox holds transitions not yet announced. One goroutine at a time
	// drains it, so notifications keep transition order without holding mu.
	outbox     []transition
	delivering bool

	boot singleflight.Group
}

var _ api.Engine = (*Engine)(nil)

// New creates an Engine and starts its session. If the UserSource already
// has an authenticated user, the profile is applied right away.
func New(cfg Config) (*Engine, error) {
	if cfg.Backend == nil {
		return nil, ErrNoBackend
	}
	if cfg.Queue == nil {
		return nil, ErrNoQueue
	}

	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	id := cfg.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		id:       id,
		env:      Env{Policy: cfg.Policy},
		backend:  cfg.Backend,
		users:    cfg.Users,
		checkout: cfg.Checkout,
		observer: obs,
		queue:    cfg.Queue,
		retry:    cfg.Retry,
		ctx:      ctx,
		cancel:   cancel,
		state:    api.NewWizardState(cfg.DefaultCountry, cfg.PhoneValidator),
	}

	e.observer.OnSessionStart(ctx, id)

	if e.users != nil {
		if u, ok := e.users.CurrentUser(); ok {
			if _, err := e.Dispatch(ctx, api.UserRestored{User: u}); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (e *Engine) ID() string { return e.id }

// State returns a consistent snapshot of the current state.
func (e *Engine) State() api.WizardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers fn to receive every new state in transition order.
// fn runs without any engine lock held and may call Dispatch; the state it
// dispatches is delivered after the current notification returns.
func (e *Engine) Subscribe(fn func(api.WizardState)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, s := range e.subs {
				if s.id == id {
					e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch reduces ev into the current state, notifies observers and
// subscribers, and schedules the effects of the transition. When another
// goroutine is already delivering notifications, it delivers this one too
// and Dispatch may return first. Enqueueing effects never blocks other
// events from being reduced.
func (e *Engine) Dispatch(ctx context.Context, ev api.Event) (api.WizardState, error) {
	if ev == nil {
		return e.State(), ErrNilEvent
	}

	e.mu.Lock()
	if e.closed {
		st := e.state
		e.mu.Unlock()
		return st, api.ErrSessionClosed
	}
	start := time.Now()
	prev := e.state
	next, effects := Reduce(e.env, prev, ev)
	e.state = next
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.outbox = append(e.outbox, transition{
		ctx:     ctx,
		ev:      ev,
		prev:    prev,
		next:    next,
		subs:    subs,
		elapsed: time.Since(start),
	})
	e.mu.Unlock()

	e.deliver()

	for _, eff := range effects {
		if err := e.schedule(eff, next); err != nil {
			return next, fmt.Errorf("schedule %s: %w", eff.Kind, err)
		}
	}
	return next, nil
}

// deliver announces queued transitions unless another goroutine is already
// doing so.
func (e *Engine) deliver() {
	e.mu.Lock()
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true

	for len(e.outbox) > 0 {
		batch := e.outbox
		e.outbox = nil
		e.mu.Unlock()
		for _, tr := range batch {
			e.announce(tr)
		}
		e.mu.Lock()
	}
	// Cleared under the same lock that saw the outbox empty.
	e.delivering = false
	e.mu.Unlock()
}

func (e *Engine) announce(tr transition) {
	e.observer.OnEventApplied(tr.ctx, e.id, tr.ev, tr.next, tr.elapsed)
	if tr.next.Stage != tr.prev.Stage {
		e.observer.OnStageAdvanced(tr.ctx, e.id, tr.prev.Stage, tr.next.Stage)
	}
	if tr.next.PendingMessage != tr.prev.PendingMessage && tr.next.PendingMessage != api.MessageNone {
		e.observer.OnMessage(tr.ctx, e.id, tr.next.PendingMessage)
	}
	for _, s := range tr.subs {
		s.fn(tr.next)
	}
}

func (e *Engine) schedule(eff Effect, state api.WizardState) error {
	t := taskqueue.Task{
		ID:         uuid.NewString(),
		SessionID:  e.id,
		EnqueuedAt: time.Now(),
	}
	switch eff.Kind {
	case EffectSignIn:
		t.Type = taskqueue.TaskTypeSignIn
		t.Payload = eff.Credentials
	case EffectCheckout:
		t.Type = taskqueue.TaskTypeCheckout
		t.Payload = state
	default:
		return fmt.Errorf("unknown effect %d", eff.Kind)
	}

	// Enqueue on the session context: a caller giving up on Dispatch must not
	// strand a confirmed sign-in.
	if err := e.queue.Enqueue(e.ctx, t); err != nil {
		if e.ctx.Err() != nil {
			return api.ErrSessionClosed
		}
		return err
	}
	return nil
}

// Bootstrap fetches the delivery options once per session. Concurrent callers
// share the same backend call and result; after a successful load the cached
// details are returned without calling the backend.
func (e *Engine) Bootstrap(ctx context.Context) (api.DeliveryDetails, error) {
	e.mu.Lock()
	closed, loaded, details := e.closed, e.loaded, e.state.DeliveryDetails
	e.mu.Unlock()

	if closed {
		return api.DeliveryDetails{}, api.ErrSessionClosed
	}
	if loaded {
		return details, nil
	}

	ch := e.boot.DoChan(bootstrapKey, func() (any, error) {
		return e.bootstrap()
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return api.DeliveryDetails{}, res.Err
		}
		return res.Val.(api.DeliveryDetails), nil
	case <-ctx.Done():
		return api.DeliveryDetails{}, ctx.Err()
	}
}

func (e *Engine) bootstrap() (api.DeliveryDetails, error) {
	ctx := e.ctx

	// A caller may have missed a flight that finished just before it joined.
	e.mu.Lock()
	if e.loaded {
		details := e.state.DeliveryDetails
		e.mu.Unlock()
		return details, nil
	}
	e.mu.Unlock()

	if _, err := e.Dispatch(ctx, api.BootstrapStarted{}); err != nil {
		return api.DeliveryDetails{}, err
	}

	methods, err := e.fetchDeliveryOptions(ctx)
	if err != nil {
		if _, derr := e.Dispatch(ctx, api.DeliveryOptionsFailed{Err: err}); derr != nil {
			return api.DeliveryDetails{}, derr
		}
		return api.DeliveryDetails{}, fmt.Errorf("fetch delivery options: %w", err)
	}

	st, err := e.Dispatch(ctx, api.DeliveryOptionsLoaded{Methods: methods})
	if err != nil {
		return api.DeliveryDetails{}, err
	}

	e.mu.Lock()
	e.loaded = true
	e.mu.Unlock()
	return st.DeliveryDetails, nil
}

func (e *Engine) fetchDeliveryOptions(ctx context.Context) ([]api.DeliveryMethod, error) {
	attempts := e.retry.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		methods, err := e.backend.FetchDeliveryOptions(ctx)
		e.observer.OnCollaboratorCall(ctx, e.id, CallFetchDeliveryOptions, err, time.Since(start))
		if err == nil {
			return methods, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if delay := e.retry.Delay(attempt); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil, lastErr
}

// Execute runs one collaborator task. It is called by pkg/worker. Calls are
// cancelled when either ctx or the session ends.
func (e *Engine) Execute(ctx context.Context, t taskqueue.Task) error {
	ctx, cancel := e.callContext(ctx)
	defer cancel()

	switch t.Type {
	case taskqueue.TaskTypeBootstrap:
		_, err := e.Bootstrap(ctx)
		return ignoreClosed(err)

	case taskqueue.TaskTypeSignIn:
		creds, ok := t.Payload.(api.Credentials)
		if !ok {
			return fmt.Errorf("%w: %T for %s", errBadPayload, t.Payload, t.Type)
		}
		return e.signIn(ctx, creds)

	case taskqueue.TaskTypeCheckout:
		st, ok := t.Payload.(api.WizardState)
		if !ok {
			return fmt.Errorf("%w: %T for %s", errBadPayload, t.Payload, t.Type)
		}
		return e.runCheckout(ctx, st)

	default:
		return fmt.Errorf("unknown task type: %s", t.Type)
	}
}

func (e *Engine) signIn(ctx context.Context, creds api.Credentials) error {
	start := time.Now()
	err := e.backend.SignIn(ctx, creds.Identifier, creds.Password)
	e.observer.OnCollaboratorCall(ctx, e.id, CallSignIn, err, time.Since(start))

	var user api.User
	if err == nil {
		u, ok := e.currentUser()
		if !ok {
			err = ErrNoProfile
		}
		user = u
	}

	// Results arriving after Close are dropped here.
	_, derr := e.Dispatch(e.ctx, api.SignInCompleted{User: user, Err: err})
	return ignoreClosed(derr)
}

func (e *Engine) currentUser() (api.User, bool) {
	if e.users == nil {
		return api.User{}, false
	}
	return e.users.CurrentUser()
}

func (e *Engine) runCheckout(ctx context.Context, st api.WizardState) error {
	if e.checkout == nil {
		return nil
	}
	start := time.Now()
	err := e.checkout(ctx, st)
	e.observer.OnCollaboratorCall(ctx, e.id, CallCheckout, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Close ends the session. Pending and in-flight calls are cancelled and their
// results are never applied. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.subs = nil
	e.mu.Unlock()

	e.cancel()
	e.observer.OnSessionEnd(context.Background(), e.id)
	return nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, api.ErrSessionClosed) {
		return nil
	}
	return err
}

package wizflow

import (
	"errors"
	"log/slog"

	"github.com/petrijr/wizflow/internal/engine"
	"github.com/petrijr/wizflow/internal/taskqueue"
	"github.com/petrijr/wizflow/pkg/api"
	"github.com/petrijr/wizflow/pkg/worker"
)

const (
	defaultWorkers       = 2
	defaultQueueCapacity = 64
)

var ErrNoBackend = errors.New("wizflow: backend is required")

// SessionBuilder provides a fluent API for configuring a Session:
//
//	sess, err := wizflow.NewSession().
//	    WithBackend(backend).
//	    WithUsers(backend).
//	    WithCountry(poland).
//	    WithRetry(wizflow.Retry(3).WithExponentialBackoff(100*time.Millisecond, 2, time.Second).Policy()).
//	    Build()
type SessionBuilder struct {
	cfg           engine.Config
	observers     []api.Observer
	workers       int
	queueCapacity int
	logger        *slog.Logger
}

// NewSession creates a builder with the default policy, two workers and
// no retries.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		cfg: engine.Config{
			Policy: api.DefaultPolicy(),
			Retry:  Retry(1).Policy(),
		},
		workers:       defaultWorkers,
		queueCapacity: defaultQueueCapacity,
	}
}

func (b *SessionBuilder) WithSessionID(id string) *SessionBuilder {
	b.cfg.SessionID = id
	return b
}

// WithBackend sets the remote service. It is required.
func (b *SessionBuilder) WithBackend(backend api.Backend) *SessionBuilder {
	b.cfg.Backend = backend
	return b
}

// WithUsers sets where the signed-in profile is read from. Without it a
// successful sign-in ends with a connection error.
func (b *SessionBuilder) WithUsers(users api.UserSource) *SessionBuilder {
	b.cfg.Users = users
	return b
}

// WithCheckout sets the continuation called when the delivery stage is
// completed.
func (b *SessionBuilder) WithCheckout(fn api.CheckoutFunc) *SessionBuilder {
	b.cfg.Checkout = fn
	return b
}

// WithObserver adds an observer. It may be called several times.
func (b *SessionBuilder) WithObserver(obs api.Observer) *SessionBuilder {
	b.observers = append(b.observers, obs)
	return b
}

func (b *SessionBuilder) WithPolicy(p api.Policy) *SessionBuilder {
	b.cfg.Policy = p
	return b
}

func (b *SessionBuilder) WithRetry(p api.RetryPolicy) *SessionBuilder {
	b.cfg.Retry = p
	return b
}

// WithCountry sets the country the phone number form starts with.
func (b *SessionBuilder) WithCountry(c api.Country) *SessionBuilder {
	b.cfg.DefaultCountry = c
	return b
}

func (b *SessionBuilder) WithPhoneValidator(v api.PhoneValidator) *SessionBuilder {
	b.cfg.PhoneValidator = v
	return b
}

// WithWorkers sets the number of worker goroutines; n <= 0 means 1.
func (b *SessionBuilder) WithWorkers(n int) *SessionBuilder {
	if n <= 0 {
		n = 1
	}
	b.workers = n
	return b
}

func (b *SessionBuilder) WithQueueCapacity(n int) *SessionBuilder {
	b.queueCapacity = n
	return b
}

// WithLogger sets the logger for worker errors. Defaults to slog.Default().
func (b *SessionBuilder) WithLogger(logger *slog.Logger) *SessionBuilder {
	b.logger = logger
	return b
}

// Build creates the Session. The workers are not running until Start.
func (b *SessionBuilder) Build() (*Session, error) {
	if b.cfg.Backend == nil {
		return nil, ErrNoBackend
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	q := taskqueue.NewInMemoryQueue(b.queueCapacity)
	cfg := b.cfg
	cfg.Queue = q
	cfg.Observer = api.NewCompositeObserver(b.observers...)

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Session{
		engine:  eng,
		queue:   q,
		worker:  worker.New(eng, q),
		workers: b.workers,
		logger:  logger,
	}, nil
}

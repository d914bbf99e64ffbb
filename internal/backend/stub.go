package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petrijr/wizflow/internal/persistence"
	"github.com/petrijr/wizflow/pkg/api"
)

// DefaultDelay is the simulated latency of every stub call.
const DefaultDelay = time.Second

// Config describes how to construct a Stub.
type Config struct {
	// Delay is applied before every call. Negative means no delay; zero
	// selects DefaultDelay.
	Delay time.Duration

	// SimulateFailure makes every call fail with api.ErrConnection until
	// SetFailing(false) is called.
	SimulateFailure bool

	// Countries resolves the country tag stored with an account. Accounts
	// whose tag is unknown get DefaultCountry.
	Countries      api.CountryDictionary
	DefaultCountry api.Country

	Hasher *Hasher
}

// Stub is an in-process stand-in for the remote wizard service. It serves
// delivery methods and accounts from a persistence.Directory and publishes
// the signed-in profile through CurrentUser.
type Stub struct {
	dir            persistence.Directory
	delay          time.Duration
	countries      api.CountryDictionary
	defaultCountry api.Country
	hasher         *Hasher

	failing atomic.Bool

	mu      sync.RWMutex
	current *api.User
}

var (
	_ api.Backend    = (*Stub)(nil)
	_ api.UserSource = (*Stub)(nil)
)

// NewStub creates a Stub reading from dir.
func NewStub(dir persistence.Directory, cfg Config) *Stub {
	delay := cfg.Delay
	switch {
	case delay == 0:
		delay = DefaultDelay
	case delay < 0:
		delay = 0
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = NewHasher(0)
	}

	s := &Stub{
		dir:            dir,
		delay:          delay,
		countries:      cfg.Countries,
		defaultCountry: cfg.DefaultCountry,
		hasher:         hasher,
	}
	s.failing.Store(cfg.SimulateFailure)
	return s
}

// SetFailing switches simulated connection failures on or off.
func (s *Stub) SetFailing(failing bool) { s.failing.Store(failing) }

// Failing reports whether simulated failures are on.
func (s *Stub) Failing() bool { return s.failing.Load() }

func (s *Stub) FetchDeliveryOptions(ctx context.Context) ([]api.DeliveryMethod, error) {
	if err := s.respond(ctx); err != nil {
		return nil, err
	}
	methods, err := s.dir.ListDeliveryMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list delivery methods: %w", err)
	}
	return methods, nil
}

// SignIn checks identifier (username or email) and password against the
// directory. On success the account's profile becomes the current user.
func (s *Stub) SignIn(ctx context.Context, identifier, password string) error {
	if err := s.respond(ctx); err != nil {
		return err
	}

	acc, err := s.dir.FindAccount(ctx, identifier)
	if errors.Is(err, persistence.ErrAccountNotFound) {
		return api.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if err := s.hasher.Compare(acc.PasswordHash, password); err != nil {
		return api.ErrUserNotFound
	}

	u := s.profile(acc)
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	return nil
}

func (s *Stub) CurrentUser() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return api.User{}, false
	}
	return *s.current, true
}

// SignOut forgets the current user.
func (s *Stub) SignOut() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Stub) respond(ctx context.Context) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if s.failing.Load() {
		return api.ErrConnection
	}
	return nil
}

func (s *Stub) profile(acc persistence.Account) api.User {
	country, ok := s.countries.Lookup(acc.CountryTag)
	if !ok {
		country = s.defaultCountry
	}
	return api.User{
		ID:          acc.ID,
		Name:        acc.Name,
		Surname:     acc.Surname,
		Email:       acc.Email,
		PhoneNumber: acc.PhoneNumber,
		Country:     country,
	}
}

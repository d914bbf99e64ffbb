package persistence

import (
	"context"
	"strings"
	"sync"

	"github.com/petrijr/wizflow/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe implementation of Directory and
// EventStore backed by maps and slices.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	methods  []api.DeliveryMethod
	events   map[string][]api.HistoryEvent
	sessions []string
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[string]Account),
		events:   make(map[string][]api.HistoryEvent),
	}
}

// Ensure InMemoryStore implements the interfaces.
var _ Directory = (*InMemoryStore)(nil)

var _ EventStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveAccount(ctx context.Context, acc Account) error {
	acc.Email = strings.ToLower(acc.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.accounts {
		if id == acc.ID {
			continue
		}
		if other.Username == acc.Username || (acc.Email != "" && other.Email == acc.Email) {
			return ErrDuplicateAccount
		}
	}
	acc.PasswordHash = append([]byte(nil), acc.PasswordHash...)
	s.accounts[acc.ID] = acc
	return nil
}

func (s *InMemoryStore) FindAccount(ctx context.Context, identifier string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email := strings.ToLower(identifier)
	for _, acc := range s.accounts {
		if acc.Username == identifier || (acc.Email != "" && acc.Email == email) {
			return acc, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (s *InMemoryStore) SaveDeliveryMethod(ctx context.Context, m api.DeliveryMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.methods {
		if existing.ID == m.ID {
			s.methods[i] = m
			return nil
		}
	}
	s.methods = append(s.methods, m)
	return nil
}

func (s *InMemoryStore) ListDeliveryMethods(ctx context.Context) ([]api.DeliveryMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.DeliveryMethod, len(s.methods))
	copy(out, s.methods)
	return out, nil
}

func (s *InMemoryStore) AppendEvent(ctx context.Context, ev api.HistoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.SessionID]; !ok {
		s.sessions = append(s.sessions, ev.SessionID)
	}
	s.events[ev.SessionID] = append(s.events[ev.SessionID], ev)
	return nil
}

func (s *InMemoryStore) ListEvents(ctx context.Context, sessionID string) ([]api.HistoryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[sessionID]
	out := make([]api.HistoryEvent, len(evs))
	copy(out, evs)
	return out, nil
}

func (s *InMemoryStore) ListSessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.sessions))
	copy(out, s.sessions)
	return out, nil
}

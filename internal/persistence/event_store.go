package persistence

import (
	"context"

	"github.com/petrijr/wizflow/pkg/api"
)

// EventStore is an append-only history store for wizard session events.
// It is a debugging and audit aid; sessions are never restored from it.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.HistoryEvent) error
	ListEvents(ctx context.Context, sessionID string) ([]api.HistoryEvent, error)
	// ListSessions returns the ids of all recorded sessions, oldest first.
	ListSessions(ctx context.Context) ([]string, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.HistoryEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, sessionID string) ([]api.HistoryEvent, error) {
	return nil, nil
}
func (NoopEventStore) ListSessions(ctx context.Context) ([]string, error) { return nil, nil }

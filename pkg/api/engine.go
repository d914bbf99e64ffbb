package api

import (
	"context"
	"errors"
)

// ErrSessionClosed is returned by operations on a session that has ended.
var ErrSessionClosed = errors.New("wizard session closed")

// Engine owns the state of one wizard session.
type Engine interface {
	// ID returns the session identifier.
	ID() string

	// Dispatch applies ev to the current state and returns the new state.
	// Events are reduced one at a time in arrival order. Collaborator calls
	// triggered by the event run in the background.
	Dispatch(ctx context.Context, ev Event) (WizardState, error)

	// State returns a consistent snapshot of the current state.
	State() WizardState

	// Subscribe registers fn to receive every new state, in transition
	// order. fn may call Dispatch; the resulting state is delivered after fn
	// returns. The returned function removes the subscription.
	Subscribe(fn func(WizardState)) (cancel func())

	// Bootstrap fetches delivery options. Concurrent callers share a single
	// backend call; once loaded, the cached details are returned.
	Bootstrap(ctx context.Context) (DeliveryDetails, error)

	// Close ends the session. Results of calls still in flight are dropped.
	Close() error
}

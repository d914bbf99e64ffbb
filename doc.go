// Package wizflow provides an embeddable engine for a two-stage checkout
// wizard: recipient data first, delivery method second.
//
// # Core Concepts
//
//  1. WizardState
//  2. Events
//  3. Session
//  4. Collaborators
//
// # WizardState
//
// The whole wizard is one immutable state tree. Every field is a validated
// field holding its raw value, its rule and the result of the last check.
// The stage only moves forward, and at most one user-facing message is
// pending at any time.
//
// # Events
//
// User input and the outcome of background calls are both events. A Session
// reduces them one at a time, in arrival order, and publishes every new state
// to its subscribers.
//
// # Session
//
// Session bundles the engine with an in-memory task queue and a small worker
// pool. Sign-in, delivery option fetches and checkout run on the workers, so
// Dispatch never waits for the network. Closing a session cancels those calls
// and drops results that arrive afterwards.
//
//	sess, err := wizflow.NewSession().
//	    WithBackend(backend).
//	    WithUsers(backend).
//	    WithObserver(wizflow.NewLoggingObserver(logger)).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	if err := sess.Start(ctx); err != nil {
//	    return err
//	}
//	defer sess.Close()
//
// # Collaborators
//
// A Backend serves delivery methods and checks credentials, a UserSource
// publishes the signed-in profile, and a PhoneValidator decides whether a
// number fits a country. The internal/backend package contains an in-process
// stub used by the wizflow command.
//
// Observers receive lifecycle callbacks. LoggingObserver writes them with
// log/slog, BasicMetrics counts them and HistoryObserver appends them to an
// EventStore.
package wizflow

// Package api defines the public types of the wizard flow engine.
//
// # State
//
// WizardState is an immutable tree: a Stage, a single pending Message, the
// RecipientData form and the DeliveryDetails. Every form is built from
// ValidatedField values, which pair a raw value with a Rule and the outcome
// of the last validation. Aggregates derive their validity from their fields
// on every call, so it can never go stale.
//
// # Events
//
// Event values are the only way to change state. UI events
// (NextButtonClicked, RecipientFieldChanged, SignInConfirmed, ...) and the
// outcomes of backend calls (DeliveryOptionsLoaded, SignInCompleted, ...)
// share one vocabulary and go through the same Engine.Dispatch entry point.
//
// # Collaborators
//
// The engine depends on three narrow interfaces:
//
//   - Backend: FetchDeliveryOptions and SignIn
//   - UserSource: the profile published after a successful sign-in
//   - PhoneValidator: country-aware phone number shape checks
//
// # Observability
//
// Observer receives lifecycle callbacks. NoopObserver, CompositeObserver,
// LoggingObserver (log/slog) and BasicMetrics cover the common cases.
package api

package wizflow

import (
	"github.com/petrijr/wizflow/internal/persistence"
	"github.com/petrijr/wizflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	Event                = api.Event
	WizardState          = api.WizardState
	Stage                = api.Stage
	Message              = api.Message
	Policy               = api.Policy
	RecipientData        = api.RecipientData
	UserSignIn           = api.UserSignIn
	DeliveryDetails      = api.DeliveryDetails
	DeliveryMethod       = api.DeliveryMethod
	Country              = api.Country
	CountryDictionary    = api.CountryDictionary
	User                 = api.User
	Backend              = api.Backend
	UserSource           = api.UserSource
	PhoneValidator       = api.PhoneValidator
	CheckoutFunc         = api.CheckoutFunc
	RetryPolicy          = api.RetryPolicy
	HistoryEvent         = api.HistoryEvent
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	// UI events.
	NextButtonClicked       = api.NextButtonClicked
	UserMessageAcknowledged = api.UserMessageAcknowledged
	RecipientFieldChanged   = api.RecipientFieldChanged
	CountryChanged          = api.CountryChanged
	PhoneNumberChanged      = api.PhoneNumberChanged
	SignInButtonClicked     = api.SignInButtonClicked
	SignInFieldChanged      = api.SignInFieldChanged
	SignInCanceled          = api.SignInCanceled
	SignInConfirmed         = api.SignInConfirmed
	DeliveryMethodSelected  = api.DeliveryMethodSelected

	// EventStore is the append-only session history consumed by
	// HistoryObserver.
	EventStore = persistence.EventStore
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	DefaultPolicy        = api.DefaultPolicy
)

// Re-export stage, field and message values for convenience.

const (
	StageRecipientData  = api.StageRecipientData
	StageDeliveryMethod = api.StageDeliveryMethod

	RecipientName    = api.RecipientName
	RecipientSurname = api.RecipientSurname
	RecipientEmail   = api.RecipientEmail
	SignInUsername   = api.SignInUsername
	SignInPassword   = api.SignInPassword

	MessageNone            = api.MessageNone
	MessageInitializing    = api.MessageInitializing
	MessageLoadingData     = api.MessageLoadingData
	MessageConnectionError = api.MessageConnectionError
	MessageUserNotFound    = api.MessageUserNotFound
)

// Sentinel errors.

var (
	ErrSessionClosed = api.ErrSessionClosed
	ErrUserNotFound  = api.ErrUserNotFound
	ErrConnection    = api.ErrConnection
)

// NewInMemoryEventStore returns an EventStore kept in process memory.
func NewInMemoryEventStore() EventStore {
	return persistence.NewInMemoryStore()
}

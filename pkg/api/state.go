package api

// Stage is one step of the linear wizard progression.
type Stage int

const (
	StageRecipientData Stage = iota
	StageDeliveryMethod
)

const lastStage = StageDeliveryMethod

// Next returns the following stage. The last stage is its own successor.
func (s Stage) Next() Stage {
	if s >= lastStage {
		return lastStage
	}
	return s + 1
}

func (s Stage) String() string {
	switch s {
	case StageRecipientData:
		return "recipient-data"
	case StageDeliveryMethod:
		return "delivery-method"
	default:
		return "unknown"
	}
}

// Message is the single user-facing notice slot. Values are message keys.
type Message string

const (
	MessageNone            Message = ""
	MessageInitializing    Message = "wizard_initializing"
	MessageLoadingData     Message = "wizard_loading_data"
	MessageConnectionError Message = "error_no_connection"
	MessageUserNotFound    Message = "error_signin_user_not_found"
)

// Key returns the message key used to resolve display text.
func (m Message) Key() string { return string(m) }

// IsError reports whether the message describes a failure.
func (m Message) IsError() bool {
	return m == MessageConnectionError || m == MessageUserNotFound
}

// Policy holds product rules the observed behaviour leaves open.
type Policy struct {
	// RequireDeliveryMethod blocks completion of the delivery stage until a
	// method is selected.
	RequireDeliveryMethod bool

	// SurfaceBootstrapFailure shows MessageConnectionError when delivery
	// options cannot be fetched. When false the initializing message stays.
	SurfaceBootstrapFailure bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		RequireDeliveryMethod:   false,
		SurfaceBootstrapFailure: true,
	}
}

// WizardState is the root of the immutable state tree.
type WizardState struct {
	Stage           Stage
	PendingMessage  Message
	RecipientData   RecipientData
	DeliveryDetails DeliveryDetails

	// SignInPending is set while a confirmed sign-in awaits the backend.
	SignInPending bool
}

// NewWizardState returns the state a session starts with.
func NewWizardState(defaultCountry Country, validator PhoneValidator) WizardState {
	return WizardState{
		Stage:          StageRecipientData,
		PendingMessage: MessageInitializing,
		RecipientData:  NewRecipientData(defaultCountry, validator),
	}
}

package api

// Event is an input to the reducer. The set of events is closed: UI events
// and orchestrator outcomes share one vocabulary.
type Event interface {
	Kind() string
	isEvent()
}

// RecipientField names an editable recipient text field.
type RecipientField int

const (
	RecipientName RecipientField = iota
	RecipientSurname
	RecipientEmail
)

func (f RecipientField) String() string {
	switch f {
	case RecipientName:
		return "name"
	case RecipientSurname:
		return "surname"
	case RecipientEmail:
		return "email"
	default:
		return "unknown"
	}
}

// SignInField names a sign-in dialog field.
type SignInField int

const (
	SignInUsername SignInField = iota
	SignInPassword
)

func (f SignInField) String() string {
	switch f {
	case SignInUsername:
		return "username"
	case SignInPassword:
		return "password"
	default:
		return "unknown"
	}
}

// UI events.

type NextButtonClicked struct{}

type UserMessageAcknowledged struct{}

type RecipientFieldChanged struct {
	Field RecipientField
	Value string
}

type CountryChanged struct {
	Country Country
}

type PhoneNumberChanged struct {
	Value string
}

type SignInButtonClicked struct{}

type SignInFieldChanged struct {
	Field SignInField
	Value string
}

type SignInCanceled struct{}

type SignInConfirmed struct{}

type DeliveryMethodSelected struct {
	ID int64
}

// Orchestrator events.

// BootstrapStarted marks the start of the delivery options fetch.
type BootstrapStarted struct{}

type DeliveryOptionsLoaded struct {
	Methods []DeliveryMethod
}

type DeliveryOptionsFailed struct {
	Err error
}

// SignInCompleted carries the sign-in outcome. On success Err is nil and
// User holds the published profile.
type SignInCompleted struct {
	User User
	Err  error
}

// UserRestored applies a profile that was already signed in when the session
// started.
type UserRestored struct {
	User User
}

func (NextButtonClicked) Kind() string       { return "next_button_clicked" }
func (UserMessageAcknowledged) Kind() string { return "user_message_acknowledged" }
func (RecipientFieldChanged) Kind() string   { return "recipient_field_changed" }
func (CountryChanged) Kind() string          { return "country_changed" }
func (PhoneNumberChanged) Kind() string      { return "phone_number_changed" }
func (SignInButtonClicked) Kind() string     { return "sign_in_button_clicked" }
func (SignInFieldChanged) Kind() string      { return "sign_in_field_changed" }
func (SignInCanceled) Kind() string          { return "sign_in_canceled" }
func (SignInConfirmed) Kind() string         { return "sign_in_confirmed" }
func (DeliveryMethodSelected) Kind() string  { return "delivery_method_selected" }
func (BootstrapStarted) Kind() string        { return "bootstrap_started" }
func (DeliveryOptionsLoaded) Kind() string   { return "delivery_options_loaded" }
func (DeliveryOptionsFailed) Kind() string   { return "delivery_options_failed" }
func (SignInCompleted) Kind() string         { return "sign_in_completed" }
func (UserRestored) Kind() string            { return "user_restored" }

func (NextButtonClicked) isEvent()       {}
func (UserMessageAcknowledged) isEvent() {}
func (RecipientFieldChanged) isEvent()   {}
func (CountryChanged) isEvent()          {}
func (PhoneNumberChanged) isEvent()      {}
func (SignInButtonClicked) isEvent()     {}
func (SignInFieldChanged) isEvent()      {}
func (SignInCanceled) isEvent()          {}
func (SignInConfirmed) isEvent()         {}
func (DeliveryMethodSelected) isEvent()  {}
func (BootstrapStarted) isEvent()        {}
func (DeliveryOptionsLoaded) isEvent()   {}
func (DeliveryOptionsFailed) isEvent()   {}
func (SignInCompleted) isEvent()         {}
func (UserRestored) isEvent()            {}

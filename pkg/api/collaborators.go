package api

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound is returned by Backend.SignIn for unknown credentials.
	ErrUserNotFound = errors.New("user not found")

	// ErrConnection is returned by a Backend that could not reach its service.
	ErrConnection = errors.New("connection error")
)

// Backend is the remote service the wizard talks to.
type Backend interface {
	// FetchDeliveryOptions returns the delivery methods on offer, in display
	// order. It has no side effects.
	FetchDeliveryOptions(ctx context.Context) ([]DeliveryMethod, error)

	// SignIn authenticates identifier (username or email). A nil error means
	// success; the profile is then available from the UserSource.
	// ErrUserNotFound marks rejected credentials; any other error is treated
	// as a connection failure.
	SignIn(ctx context.Context, identifier, password string) error
}

// UserSource exposes the currently authenticated user.
type UserSource interface {
	CurrentUser() (User, bool)
}

// Credentials are the sign-in dialog values captured at confirmation.
type Credentials struct {
	Identifier string
	Password   string
}

// CheckoutFunc continues the flow once the delivery stage is completed.
type CheckoutFunc func(ctx context.Context, state WizardState) error

// SignInMessage maps a sign-in error to the message shown to the user.
func SignInMessage(err error) Message {
	switch {
	case err == nil:
		return MessageNone
	case errors.Is(err, ErrUserNotFound):
		return MessageUserNotFound
	default:
		return MessageConnectionError
	}
}

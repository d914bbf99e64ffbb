package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/wizflow/pkg/api"
)

var (
	// ErrAccountNotFound is returned when no account matches an identifier.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount is returned when a username or email is already taken
	// by another account.
	ErrDuplicateAccount = errors.New("duplicate account")
)

// Account is a stored user together with its credential hash.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte

	Name        string
	Surname     string
	PhoneNumber string
	CountryTag  string
}

// Directory holds the data served by the stub backend: user accounts and the
// delivery methods on offer.
type Directory interface {
	// SaveAccount inserts or replaces the account with the same ID.
	SaveAccount(ctx context.Context, acc Account) error
	// FindAccount looks an account up by username or email.
	FindAccount(ctx context.Context, identifier string) (Account, error)

	// SaveDeliveryMethod inserts or replaces the method with the same ID.
	// New methods are listed after the existing ones.
	SaveDeliveryMethod(ctx context.Context, m api.DeliveryMethod) error
	// ListDeliveryMethods returns the methods in display order.
	ListDeliveryMethods(ctx context.Context) ([]api.DeliveryMethod, error)
}

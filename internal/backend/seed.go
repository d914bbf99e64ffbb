package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/wizflow/internal/persistence"
	"github.com/petrijr/wizflow/pkg/api"
)

const day = 24 * time.Hour

// DefaultDeliveryMethods returns the methods the stub offers out of the box,
// in display order.
func DefaultDeliveryMethods() []api.DeliveryMethod {
	return []api.DeliveryMethod{
		{ID: 3, DisplayName: "Pickup in person", EstimatedLeadTime: 0, CostLabel: "0zł"},
		{ID: 0, DisplayName: "Local Shipping", EstimatedLeadTime: 1 * day, CostLabel: "25zł"},
		{ID: 1, DisplayName: "Local Post Office", EstimatedLeadTime: 3 * day, CostLabel: "17zł"},
		{ID: 2, DisplayName: "Paczkomat", EstimatedLeadTime: 2 * day, CostLabel: "8zł"},
	}
}

// AccountInput describes an account to register.
type AccountInput struct {
	Username    string
	Email       string
	Password    string
	Name        string
	Surname     string
	PhoneNumber string
	CountryTag  string
}

// DemoAccount is the account installed by Seed.
var DemoAccount = AccountInput{
	Username:    "lorem",
	Email:       "lorem@ipsum.com",
	Password:    "loremipsum",
	Name:        "Lorem",
	Surname:     "Ipsum",
	PhoneNumber: "512345678",
	CountryTag:  "PL",
}

// demoAccountID is stable so that seeding twice updates instead of failing.
var demoAccountID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("wizflow:account:demo")).String()

// Register hashes the password and stores a new account with a fresh id.
func Register(ctx context.Context, dir persistence.Directory, h *Hasher, in AccountInput) (persistence.Account, error) {
	return saveAccount(ctx, dir, h, uuid.NewString(), in)
}

// Seed installs the default delivery methods and the demo account. It is
// idempotent.
func Seed(ctx context.Context, dir persistence.Directory, h *Hasher) error {
	for _, m := range DefaultDeliveryMethods() {
		if err := dir.SaveDeliveryMethod(ctx, m); err != nil {
			return fmt.Errorf("seed delivery method %d: %w", m.ID, err)
		}
	}
	if _, err := saveAccount(ctx, dir, h, demoAccountID, DemoAccount); err != nil {
		return fmt.Errorf("seed demo account: %w", err)
	}
	return nil
}

func saveAccount(ctx context.Context, dir persistence.Directory, h *Hasher, id string, in AccountInput) (persistence.Account, error) {
	if in.Username == "" {
		return persistence.Account{}, errors.New("username is required")
	}
	if code := api.Password(in.Password); code != api.NoError {
		return persistence.Account{}, fmt.Errorf("invalid password: %s", code.Key())
	}
	hash, err := h.Hash(in.Password)
	if err != nil {
		return persistence.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acc := persistence.Account{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Surname:      in.Surname,
		PhoneNumber:  in.PhoneNumber,
		CountryTag:   in.CountryTag,
	}
	if err := dir.SaveAccount(ctx, acc); err != nil {
		return persistence.Account{}, err
	}
	return acc, nil
}

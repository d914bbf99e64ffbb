package api

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-z\d](?:[a-z\d.]*[a-z\d])?@[a-z\d](?:[a-z\d.]*[a-z\d])?\.[a-z\d]{2,}$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d]+$`)
)

const minPasswordLength = 8

// PhoneValidator checks whether a number has a plausible shape for a country.
// Implementations may return an error or even panic on malformed input; the
// phone rule treats both as an invalid number.
type PhoneValidator interface {
	ValidPhoneShape(number string, country Country) (bool, error)
}

// PhoneValidatorFunc adapts a function to PhoneValidator.
type PhoneValidatorFunc func(number string, country Country) (bool, error)

func (f PhoneValidatorFunc) ValidPhoneShape(number string, country Country) (bool, error) {
	return f(number, country)
}

// RequiredField fails with FieldRequired when value is empty or whitespace.
func RequiredField(value string) ErrorCode {
	if strings.TrimSpace(value) == "" {
		return FieldRequired
	}
	return NoError
}

// Email accepts a conservative subset of addresses: lowercase alphanumeric
// labels with interior dots, no consecutive dots and a final label of at
// least two characters.
func Email(value string) ErrorCode {
	if err := RequiredField(value); err != NoError {
		return err
	}
	if strings.Contains(value, "..") || !emailPattern.MatchString(value) {
		return EmailInvalid
	}
	return NoError
}

// Password accepts ASCII letters and digits only, at least eight of them.
func Password(value string) ErrorCode {
	if err := RequiredField(value); err != NoError {
		return err
	}
	if !passwordPattern.MatchString(value) {
		return IllegalCharacters
	}
	if len(value) < minPasswordLength {
		return TooShort
	}
	return NoError
}

// PhoneNumberRule returns a rule that checks a number against country using
// validator. A nil validator only enforces the required check.
func PhoneNumberRule(country Country, validator PhoneValidator) Rule {
	return func(value string) ErrorCode {
		if err := RequiredField(value); err != NoError {
			return err
		}
		if validator == nil {
			return NoError
		}
		if !validPhoneShape(validator, value, country) {
			return PhoneInvalid
		}
		return NoError
	}
}

func validPhoneShape(validator PhoneValidator, value string, country Country) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	valid, err := validator.ValidPhoneShape(value, country)
	return err == nil && valid
}

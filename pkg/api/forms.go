package api

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PhoneNumber is the phone sub-form: a selected country, a read-only field
// mirroring it and the number itself. The number's validity depends on both
// the number and the country.
type PhoneNumber struct {
	Country        Country
	CountryDisplay ValidatedField
	Number         ValidatedField

	validator PhoneValidator
}

// NewPhoneNumber returns an empty phone sub-form for country. validator is
// used for every number edit and revalidation.
func NewPhoneNumber(country Country, validator PhoneValidator) PhoneNumber {
	return PhoneNumber{
		Country:        country,
		CountryDisplay: NewField(country.FormattedCallingCode(), nil),
		Number:         NewField("", PhoneNumberRule(country, validator)),
		validator:      validator,
	}
}

// Validator returns the phone validator the sub-form was built with.
func (p PhoneNumber) Validator() PhoneValidator { return p.validator }

// IsValid reports whether the number passed its last validation.
func (p PhoneNumber) IsValid() bool { return p.Number.IsValid() }

// WithCountry selects country and re-derives the display field. The number
// is not revalidated until the next edit or ValidateAll.
func (p PhoneNumber) WithCountry(country Country) PhoneNumber {
	p.Country = country
	p.CountryDisplay = NewField(country.FormattedCallingCode(), nil)
	return p
}

// EditNumber replaces the number and validates it against the current
// country.
func (p PhoneNumber) EditNumber(value string) PhoneNumber {
	p.Number = p.Number.EditWithRule(value, PhoneNumberRule(p.Country, p.validator))
	return p
}

// ValidateAll revalidates the number against the current country.
func (p PhoneNumber) ValidateAll() PhoneNumber {
	return p.EditNumber(p.Number.Value())
}

// UserSignIn is the transient sign-in dialog form.
type UserSignIn struct {
	Name     ValidatedField
	Password ValidatedField
}

// NewUserSignIn returns an empty sign-in form.
func NewUserSignIn() UserSignIn {
	return UserSignIn{
		Name:     NewField("", RequiredField),
		Password: NewField("", Password),
	}
}

// IsValid reports whether both sign-in fields passed their last validation.
func (u UserSignIn) IsValid() bool {
	return u.Name.IsValid() && u.Password.IsValid()
}

// ValidateAll revalidates both sign-in fields.
func (u UserSignIn) ValidateAll() UserSignIn {
	u.Name = u.Name.Validate()
	u.Password = u.Password.Validate()
	return u
}

func (u UserSignIn) EditName(value string) UserSignIn {
	u.Name = u.Name.Edit(value)
	return u
}

func (u UserSignIn) EditPassword(value string) UserSignIn {
	u.Password = u.Password.Edit(value)
	return u
}

// RecipientData is the first wizard stage: who receives the parcel.
type RecipientData struct {
	IsSignedIn         bool
	IsSignInDialogOpen bool
	SignIn             UserSignIn
	Name               ValidatedField
	Surname            ValidatedField
	Email              ValidatedField
	Phone              PhoneNumber
}

// NewRecipientData returns an empty recipient form whose phone defaults to
// country.
func NewRecipientData(country Country, validator PhoneValidator) RecipientData {
	return RecipientData{
		SignIn:  NewUserSignIn(),
		Name:    NewField("", RequiredField),
		Surname: NewField("", RequiredField),
		Email:   NewField("", Email),
		Phone:   NewPhoneNumber(country, validator),
	}
}

// IsValid is derived from the constituent fields on every call.
func (r RecipientData) IsValid() bool {
	return r.SignIn.IsValid() &&
		r.Name.IsValid() &&
		r.Surname.IsValid() &&
		r.Email.IsValid() &&
		r.Phone.IsValid()
}

// ValidateAll revalidates name, surname, email and phone. The sign-in form is
// validated separately when its dialog is confirmed.
func (r RecipientData) ValidateAll() RecipientData {
	r.Name = r.Name.Validate()
	r.Surname = r.Surname.Validate()
	r.Email = r.Email.Validate()
	r.Phone = r.Phone.ValidateAll()
	return r
}

// EditName trims leading whitespace and capitalises the first letter.
func (r RecipientData) EditName(value string) RecipientData {
	r.Name = r.Name.Edit(capitalize(value))
	return r
}

// EditSurname trims leading whitespace and capitalises the first letter.
func (r RecipientData) EditSurname(value string) RecipientData {
	r.Surname = r.Surname.Edit(capitalize(value))
	return r
}

// EditEmail trims surrounding whitespace and lower-cases the address.
func (r RecipientData) EditEmail(value string) RecipientData {
	r.Email = r.Email.Edit(strings.ToLower(strings.TrimSpace(value)))
	return r
}

func (r RecipientData) EditCountry(country Country) RecipientData {
	r.Phone = r.Phone.WithCountry(country)
	return r
}

func (r RecipientData) EditPhoneNumber(value string) RecipientData {
	r.Phone = r.Phone.EditNumber(value)
	return r
}

// WithProfile fills the form from an authenticated profile and validates
// every populated field.
func (r RecipientData) WithProfile(u User) RecipientData {
	r.IsSignedIn = true
	r.Name = r.Name.Edit(u.Name)
	r.Surname = r.Surname.Edit(u.Surname)
	r.Email = r.Email.Edit(u.Email)
	r.Phone = r.Phone.WithCountry(u.Country).EditNumber(u.PhoneNumber)
	return r
}

func capitalize(value string) string {
	value = strings.TrimLeftFunc(value, unicode.IsSpace)
	first, size := utf8.DecodeRuneInString(value)
	if first == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(first)) + value[size:]
}

// DeliveryDetails is the second wizard stage.
type DeliveryDetails struct {
	// AvailableMethods is populated once by the bootstrap call and must not
	// be modified in place.
	AvailableMethods []DeliveryMethod
	// Selected is nil or points at a copy of an element of AvailableMethods.
	Selected *DeliveryMethod
}

// WithMethods replaces the available methods, dropping a selection that is
// no longer offered.
func (d DeliveryDetails) WithMethods(methods []DeliveryMethod) DeliveryDetails {
	d.AvailableMethods = append([]DeliveryMethod(nil), methods...)
	if d.Selected != nil {
		if m, ok := d.find(d.Selected.ID); ok {
			d.Selected = &m
		} else {
			d.Selected = nil
		}
	}
	return d
}

// Select marks the method with the given id as selected. Unknown ids leave
// the details unchanged and report false.
func (d DeliveryDetails) Select(id int64) (DeliveryDetails, bool) {
	m, ok := d.find(id)
	if !ok {
		return d, false
	}
	d.Selected = &m
	return d, true
}

// IsValid reports whether the stage may complete under policy.
func (d DeliveryDetails) IsValid(policy Policy) bool {
	return !policy.RequireDeliveryMethod || d.Selected != nil
}

func (d DeliveryDetails) find(id int64) (DeliveryMethod, bool) {
	for _, m := range d.AvailableMethods {
		if m.ID == id {
			return m, true
		}
	}
	return DeliveryMethod{}, false
}

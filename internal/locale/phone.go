package locale

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/petrijr/wizflow/pkg/api"
)

// PhoneShapeValidator checks numbers with libphonenumber: the number must
// parse for the country, carry the country's calling code and have a
// possible length.
type PhoneShapeValidator struct{}

var _ api.PhoneValidator = PhoneShapeValidator{}

func (PhoneShapeValidator) ValidPhoneShape(number string, country api.Country) (bool, error) {
	num, err := phonenumbers.Parse(number, country.Tag)
	if err != nil {
		return false, fmt.Errorf("parse %q for %s: %w", number, country.Tag, err)
	}
	if country.CallingCode != 0 && int(num.GetCountryCode()) != country.CallingCode {
		return false, nil
	}
	return phonenumbers.IsPossibleNumber(num), nil
}

package api

import (
	"fmt"
	"sort"
	"time"
)

// Country is an immutable entry of the country dictionary.
type Country struct {
	Tag         string // ISO 3166-1 alpha-2 region, e.g. "PL"
	DisplayName string
	CallingCode int
	Flag        string // regional indicator glyph pair
}

// FormattedCallingCode renders the country as shown in the read-only phone
// country field, e.g. "+48 🇵🇱".
func (c Country) FormattedCallingCode() string {
	if c.Flag == "" {
		return fmt.Sprintf("+%d", c.CallingCode)
	}
	return fmt.Sprintf("+%d %s", c.CallingCode, c.Flag)
}

// CountryDictionary maps a country tag to its Country. It is built once and
// must be treated as read-only afterwards.
type CountryDictionary map[string]Country

// Lookup returns the country registered under tag.
func (d CountryDictionary) Lookup(tag string) (Country, bool) {
	c, ok := d[tag]
	return c, ok
}

// Sorted returns the countries ordered by calling code, then tag.
func (d CountryDictionary) Sorted() []Country {
	out := make([]Country, 0, len(d))
	for _, c := range d {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CallingCode != out[j].CallingCode {
			return out[i].CallingCode < out[j].CallingCode
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// DeliveryMethod is one of the shipping options offered by the backend.
type DeliveryMethod struct {
	ID                int64
	DisplayName       string
	EstimatedLeadTime time.Duration
	CostLabel         string
}

// User is the authenticated profile published by the backend after a
// successful sign-in.
type User struct {
	ID          string
	Name        string
	Surname     string
	Email       string
	PhoneNumber string
	Country     Country
}

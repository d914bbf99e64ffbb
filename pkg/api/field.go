package api

// ErrorCode identifies why a field failed validation. The zero value,
// NoError, means the field is valid. Codes double as message keys and can be
// turned into display text by a message resolver.
type ErrorCode string

const (
	NoError           ErrorCode = ""
	FieldRequired     ErrorCode = "error_field_required"
	EmailInvalid      ErrorCode = "error_email_invalid"
	IllegalCharacters ErrorCode = "error_password_illegal_characters"
	TooShort          ErrorCode = "error_password_too_short"
	PhoneInvalid      ErrorCode = "error_phone_no_invalid"
)

// Key returns the message key for the code.
func (c ErrorCode) Key() string { return string(c) }

// Rule validates a raw field value. It returns NoError when the value passes.
type Rule func(value string) ErrorCode

// ValidatedField is a value together with the rule that judges it and the
// outcome of the last validation.
//
// A ValidatedField is immutable: Edit and Validate return a new field.
// A freshly constructed field reports Valid until it is validated, so callers
// must validate before rendering validity.
type ValidatedField struct {
	value string
	rule  Rule
	err   ErrorCode
}

// NewField returns an unvalidated field holding value and judged by rule.
// A nil rule accepts every value.
func NewField(value string, rule Rule) ValidatedField {
	return ValidatedField{value: value, rule: rule}
}

// Value returns the raw field value.
func (f ValidatedField) Value() string { return f.value }

// Err returns the error code from the last validation, or NoError.
func (f ValidatedField) Err() ErrorCode { return f.err }

// IsValid reports whether the last validation passed.
func (f ValidatedField) IsValid() bool { return f.err == NoError }

// Rule returns the rule the field is validated with.
func (f ValidatedField) Rule() Rule { return f.rule }

// Validate re-applies the field's rule to its current value.
func (f ValidatedField) Validate() ValidatedField {
	f.err = apply(f.rule, f.value)
	return f
}

// Edit replaces the value and validates it with the existing rule.
func (f ValidatedField) Edit(value string) ValidatedField {
	return f.EditWithRule(value, f.rule)
}

// EditWithRule replaces both value and rule and validates the new value.
func (f ValidatedField) EditWithRule(value string, rule Rule) ValidatedField {
	return ValidatedField{
		value: value,
		rule:  rule,
		err:   apply(rule, value),
	}
}

func apply(rule Rule, value string) ErrorCode {
	if rule == nil {
		return NoError
	}
	return rule(value)
}

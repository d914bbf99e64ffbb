package api

import "testing"

func TestValidatedField_NewFieldIsUnvalidated(t *testing.T) {
	f := NewField("", RequiredField)
	if !f.IsValid() {
		t.Fatalf("a fresh field must report valid until validated")
	}
	if f = f.Validate(); f.Err() != FieldRequired {
		t.Fatalf("Validate() err = %q, want %q", f.Err(), FieldRequired)
	}
}

// Editing to a value must give the same outcome as constructing with it and
// validating.
func TestValidatedField_EditEqualsConstructAndValidate(t *testing.T) {
	rules := map[string]Rule{
		"required": RequiredField,
		"email":    Email,
		"password": Password,
	}
	values := []string{"", " ", "a@b.co", "a..b@x.com", "abc12345", "abc$1234", "abc"}

	for name, rule := range rules {
		for _, v := range values {
			edited := NewField("seed", rule).Edit(v)
			fresh := NewField(v, rule).Validate()
			if edited.Value() != fresh.Value() || edited.Err() != fresh.Err() {
				t.Fatalf("%s: Edit(%q) = (%q, %q), construct+validate = (%q, %q)",
					name, v, edited.Value(), edited.Err(), fresh.Value(), fresh.Err())
			}
		}
	}
}

func TestValidatedField_CorrectiveEditClearsError(t *testing.T) {
	f := NewField("", Email).Validate()
	if f.IsValid() {
		t.Fatalf("expected invalid empty email")
	}
	f = f.Edit("a@b.co")
	if !f.IsValid() || f.Err() != NoError {
		t.Fatalf("expected corrective edit to clear the error, got %q", f.Err())
	}
}

func TestValidatedField_EditWithRule(t *testing.T) {
	f := NewField("abc", RequiredField).EditWithRule("abc", Password)
	if f.Err() != TooShort {
		t.Fatalf("EditWithRule err = %q, want %q", f.Err(), TooShort)
	}
	if f.Rule() == nil {
		t.Fatalf("expected rule to be replaced")
	}
}

func TestValidatedField_NilRuleAcceptsAnything(t *testing.T) {
	f := NewField("", nil).Validate()
	if !f.IsValid() {
		t.Fatalf("nil rule must accept every value")
	}
}

package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var texts = map[language.Tag]map[string]string{
	language.English: {
		"wizard_initializing":               "Preparing the wizard…",
		"wizard_loading_data":               "Loading data…",
		"error_no_connection":               "No connection to the server. Try again later.",
		"error_signin_user_not_found":       "User not found.",
		"error_field_required":              "This field is required.",
		"error_email_invalid":               "Invalid email address.",
		"error_password_illegal_characters": "Password may contain only letters and digits.",
		"error_password_too_short":          "Password must be at least 8 characters long.",
		"error_phone_no_invalid":            "Invalid phone number.",
	},
	language.Polish: {
		"wizard_initializing":               "Przygotowywanie kreatora…",
		"wizard_loading_data":               "Wczytywanie danych…",
		"error_no_connection":               "Brak połączenia z serwerem. Spróbuj ponownie później.",
		"error_signin_user_not_found":       "Nie znaleziono użytkownika.",
		"error_field_required":              "To pole jest wymagane.",
		"error_email_invalid":               "Nieprawidłowy adres e-mail.",
		"error_password_illegal_characters": "Hasło może zawierać tylko litery i cyfry.",
		"error_password_too_short":          "Hasło musi mieć co najmniej 8 znaków.",
		"error_phone_no_invalid":            "Nieprawidłowy numer telefonu.",
	},
}

// Resolver turns message and error keys into display text.
type Resolver struct {
	printer *message.Printer
}

// NewResolver returns a Resolver for the closest supported language to lang.
// English is used when nothing matches.
func NewResolver(lang language.Tag) *Resolver {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range texts {
		for key, text := range msgs {
			// SetString only fails for malformed messages; these are literals.
			_ = b.SetString(tag, key, text)
		}
	}

	langs := b.Languages()
	_, idx, conf := language.NewMatcher(langs).Match(lang)
	tag := language.English
	if conf != language.No {
		tag = langs[idx]
	}

	return &Resolver{printer: message.NewPrinter(tag, message.Catalog(b))}
}

// Text returns the display text for key. Unknown keys are returned as is.
func (r *Resolver) Text(key string) string {
	if key == "" {
		return ""
	}
	return r.printer.Sprintf(key)
}

package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/petrijr/wizflow/internal/locale"
	"github.com/petrijr/wizflow/pkg/api"
)

// syncWriter serialises writes from the input loop and the workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type renderer struct {
	w   io.Writer
	res *locale.Resolver

	// last is only touched by onState, which the engine calls one
	// transition at a time.
	last api.WizardState
}

// onState reports stage changes and newly shown messages.
func (r *renderer) onState(st api.WizardState) {
	var b strings.Builder
	if st.Stage != r.last.Stage {
		fmt.Fprintf(&b, "-> stage %s\n", st.Stage)
	}
	if st.PendingMessage != r.last.PendingMessage && st.PendingMessage != api.MessageNone {
		fmt.Fprintf(&b, "! %s\n", r.res.Text(st.PendingMessage.Key()))
	}
	r.last = st
	if b.Len() > 0 {
		_, _ = io.WriteString(r.w, b.String())
	}
}

func (r *renderer) render(st api.WizardState) {
	var b strings.Builder
	rd := st.RecipientData

	fmt.Fprintf(&b, "stage:     %s\n", st.Stage)
	if st.PendingMessage != api.MessageNone {
		fmt.Fprintf(&b, "message:   %s\n", r.res.Text(st.PendingMessage.Key()))
	}
	fmt.Fprintf(&b, "signed in: %t\n", rd.IsSignedIn)
	r.field(&b, "name", rd.Name)
	r.field(&b, "surname", rd.Surname)
	r.field(&b, "email", rd.Email)
	r.field(&b, "phone", rd.Phone.Number, rd.Phone.CountryDisplay.Value())

	if rd.IsSignInDialogOpen {
		b.WriteString("sign-in dialog:\n")
		r.field(&b, "  user", rd.SignIn.Name)
		r.field(&b, "  password", maskPassword(rd.SignIn.Password))
	}

	if methods := st.DeliveryDetails.AvailableMethods; len(methods) > 0 {
		b.WriteString("delivery:\n")
		for _, m := range methods {
			mark := " "
			if sel := st.DeliveryDetails.Selected; sel != nil && sel.ID == m.ID {
				mark = "*"
			}
			fmt.Fprintf(&b, "  (%s) %d %s, %s, %s\n", mark, m.ID, m.DisplayName, m.CostLabel, leadTime(m.EstimatedLeadTime))
		}
	}
	_, _ = io.WriteString(r.w, b.String())
}

func (r *renderer) field(b *strings.Builder, label string, f api.ValidatedField, prefix ...string) {
	value := f.Value()
	if len(prefix) > 0 {
		value = strings.TrimSpace(strings.Join(prefix, " ") + " " + value)
	}
	fmt.Fprintf(b, "%-10s %s", label+":", value)
	if !f.IsValid() {
		fmt.Fprintf(b, "  ! %s", r.res.Text(f.Err().Key()))
	}
	b.WriteString("\n")
}

func (r *renderer) summary(st api.WizardState) {
	rd := st.RecipientData
	delivery := "no delivery method"
	if sel := st.DeliveryDetails.Selected; sel != nil {
		delivery = sel.DisplayName
	}
	fmt.Fprintf(r.w, "checkout: %s %s <%s> %s %s via %s\n",
		rd.Name.Value(), rd.Surname.Value(), rd.Email.Value(),
		rd.Phone.Country.FormattedCallingCode(), rd.Phone.Number.Value(), delivery)
}

func maskPassword(f api.ValidatedField) api.ValidatedField {
	masked := api.NewField(strings.Repeat("*", len(f.Value())), nil)
	if f.IsValid() {
		return masked
	}
	// Keep the error of the real value.
	return api.NewField(masked.Value(), func(string) api.ErrorCode { return f.Err() }).Validate()
}

func leadTime(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	switch days {
	case 0:
		return "same day"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

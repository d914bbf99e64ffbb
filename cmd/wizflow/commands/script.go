package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/petrijr/wizflow/pkg/api"
)

type action int

const (
	actionNone action = iota
	actionEvent
	actionShow
	actionWait
	actionHelp
	actionQuit
)

// command is one parsed input line.
type command struct {
	action action
	event  api.Event
}

const usage = `commands:
  name|surname|email|phone <value>   edit a recipient field
  country <TAG>                      select the phone country, e.g. PL
  signin                             open the sign-in dialog
  user|password <value>              edit a sign-in field
  confirm | cancel                   close the sign-in dialog
  select <id>                        select a delivery method
  next                               complete the current stage
  ack                                dismiss the current message
  show                               print the wizard state
  wait                               wait for background calls to finish
  help | quit
`

// parseLine turns an input line into a command. Everything after the verb is
// the value, so values may contain spaces. Blank lines and lines starting
// with # are ignored.
func parseLine(line string, dict api.CountryDictionary) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return command{action: actionNone}, nil
	}
	verb, value, _ := strings.Cut(line, " ")
	value = strings.TrimSpace(value)

	event := func(ev api.Event) (command, error) {
		return command{action: actionEvent, event: ev}, nil
	}

	switch strings.ToLower(verb) {
	case "next":
		return event(api.NextButtonClicked{})
	case "ack":
		return event(api.UserMessageAcknowledged{})
	case "name":
		return event(api.RecipientFieldChanged{Field: api.RecipientName, Value: value})
	case "surname":
		return event(api.RecipientFieldChanged{Field: api.RecipientSurname, Value: value})
	case "email":
		return event(api.RecipientFieldChanged{Field: api.RecipientEmail, Value: value})
	case "phone":
		return event(api.PhoneNumberChanged{Value: value})
	case "country":
		c, ok := dict.Lookup(strings.ToUpper(value))
		if !ok {
			return command{}, fmt.Errorf("unknown country %q", value)
		}
		return event(api.CountryChanged{Country: c})
	case "signin":
		return event(api.SignInButtonClicked{})
	case "user":
		return event(api.SignInFieldChanged{Field: api.SignInUsername, Value: value})
	case "password":
		return event(api.SignInFieldChanged{Field: api.SignInPassword, Value: value})
	case "confirm":
		return event(api.SignInConfirmed{})
	case "cancel":
		return event(api.SignInCanceled{})
	case "select":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return command{}, fmt.Errorf("select: invalid id %q", value)
		}
		return event(api.DeliveryMethodSelected{ID: id})
	case "show":
		return command{action: actionShow}, nil
	case "wait":
		return command{action: actionWait}, nil
	case "help", "?":
		return command{action: actionHelp}, nil
	case "quit", "exit":
		return command{action: actionQuit}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", verb)
	}
}

package engine

import (
	"github.com/petrijr/wizflow/pkg/api"
)

// EffectKind identifies a side effect requested by a transition.
type EffectKind int

const (
	// EffectSignIn asks the orchestrator to call Backend.SignIn.
	EffectSignIn EffectKind = iota + 1
	// EffectCheckout asks the orchestrator to hand the completed state to
	// the checkout continuation.
	EffectCheckout
)

func (k EffectKind) String() string {
	switch k {
	case EffectSignIn:
		return "sign-in"
	case EffectCheckout:
		return "checkout"
	default:
		return "unknown"
	}
}

// Effect is a request for work the reducer cannot do itself.
type Effect struct {
	Kind EffectKind

	// Credentials is set for EffectSignIn. They are captured before the
	// sign-in form is reset.
	Credentials api.Credentials
}

// Env carries the read-only inputs of the reducer.
type Env struct {
	Policy api.Policy
}

// Reduce applies ev to state and returns the next state together with the
// effects the transition requested. It is pure: all collaborator calls are
// described by the returned effects. Unknown events leave the state
// unchanged. The stage never moves backwards.
func Reduce(env Env, state api.WizardState, ev api.Event) (api.WizardState, []Effect) {
	switch ev := ev.(type) {
	case api.NextButtonClicked:
		return next(env, state)

	case api.UserMessageAcknowledged:
		state.PendingMessage = api.MessageNone
		return state, nil

	case api.RecipientFieldChanged:
		rd := state.RecipientData
		switch ev.Field {
		case api.RecipientName:
			rd = rd.EditName(ev.Value)
		case api.RecipientSurname:
			rd = rd.EditSurname(ev.Value)
		case api.RecipientEmail:
			rd = rd.EditEmail(ev.Value)
		default:
			return state, nil
		}
		state.RecipientData = rd
		return state, nil

	case api.CountryChanged:
		state.RecipientData = state.RecipientData.EditCountry(ev.Country)
		return state, nil

	case api.PhoneNumberChanged:
		state.RecipientData = state.RecipientData.EditPhoneNumber(ev.Value)
		return state, nil

	case api.SignInButtonClicked:
		state.RecipientData.IsSignInDialogOpen = true
		return state, nil

	case api.SignInFieldChanged:
		si := state.RecipientData.SignIn
		switch ev.Field {
		case api.SignInUsername:
			si = si.EditName(ev.Value)
		case api.SignInPassword:
			si = si.EditPassword(ev.Value)
		default:
			return state, nil
		}
		state.RecipientData.SignIn = si
		return state, nil

	case api.SignInCanceled:
		state.RecipientData.IsSignInDialogOpen = false
		state.RecipientData.SignIn = api.NewUserSignIn()
		return state, nil

	case api.SignInConfirmed:
		return confirmSignIn(state)

	case api.DeliveryMethodSelected:
		if dd, ok := state.DeliveryDetails.Select(ev.ID); ok {
			state.DeliveryDetails = dd
		}
		return state, nil

	case api.BootstrapStarted:
		if state.PendingMessage == api.MessageNone {
			state.PendingMessage = api.MessageInitializing
		}
		return state, nil

	case api.DeliveryOptionsLoaded:
		state.DeliveryDetails = state.DeliveryDetails.WithMethods(ev.Methods)
		if state.PendingMessage == api.MessageInitializing {
			state.PendingMessage = api.MessageNone
		}
		return state, nil

	case api.DeliveryOptionsFailed:
		if env.Policy.SurfaceBootstrapFailure {
			state.PendingMessage = api.MessageConnectionError
		}
		return state, nil

	case api.SignInCompleted:
		return completeSignIn(state, ev)

	case api.UserRestored:
		state.RecipientData = state.RecipientData.WithProfile(ev.User)
		return state, nil

	default:
		return state, nil
	}
}

func next(env Env, state api.WizardState) (api.WizardState, []Effect) {
	switch state.Stage {
	case api.StageRecipientData:
		state.RecipientData = state.RecipientData.ValidateAll()
		if state.RecipientData.IsValid() {
			state.Stage = state.Stage.Next()
		}
		return state, nil

	case api.StageDeliveryMethod:
		if !state.DeliveryDetails.IsValid(env.Policy) {
			return state, nil
		}
		return state, []Effect{{Kind: EffectCheckout}}

	default:
		return state, nil
	}
}

func confirmSignIn(state api.WizardState) (api.WizardState, []Effect) {
	if state.SignInPending {
		return state, nil
	}

	si := state.RecipientData.SignIn.ValidateAll()
	if !si.IsValid() {
		state.RecipientData.SignIn = si
		return state, nil
	}

	creds := api.Credentials{
		Identifier: si.Name.Value(),
		Password:   si.Password.Value(),
	}

	state.PendingMessage = api.MessageLoadingData
	state.RecipientData.IsSignInDialogOpen = false
	state.RecipientData.SignIn = api.NewUserSignIn()
	state.SignInPending = true
	return state, []Effect{{Kind: EffectSignIn, Credentials: creds}}
}

func completeSignIn(state api.WizardState, ev api.SignInCompleted) (api.WizardState, []Effect) {
	state.SignInPending = false

	if ev.Err != nil {
		state.PendingMessage = api.SignInMessage(ev.Err)
		return state, nil
	}

	state.RecipientData = state.RecipientData.WithProfile(ev.User)
	state.PendingMessage = api.MessageNone
	if state.Stage == api.StageRecipientData && state.RecipientData.IsValid() {
		state.Stage = state.Stage.Next()
	}
	return state, nil
}

package wizflow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/petrijr/wizflow/internal/backend"
	"github.com/petrijr/wizflow/internal/locale"
	"github.com/petrijr/wizflow/internal/persistence"
)

var poland = Country{Tag: "PL", DisplayName: "Poland", CallingCode: 48, Flag: "🇵🇱"}

const waitFor = 2 * time.Second

func newStub(t *testing.T, cfg backend.Config) *backend.Stub {
	t.Helper()
	dir := persistence.NewInMemoryStore()
	h := backend.NewHasher(bcrypt.MinCost)
	require.NoError(t, backend.Seed(context.Background(), dir, h))

	if cfg.Delay == 0 {
		cfg.Delay = -1
	}
	cfg.Hasher = h
	cfg.Countries = CountryDictionary{"PL": poland}
	cfg.DefaultCountry = poland
	return backend.NewStub(dir, cfg)
}

func newBuilder(stub *backend.Stub) *SessionBuilder {
	return NewSession().
		WithBackend(stub).
		WithUsers(stub).
		WithCountry(poland).
		WithPhoneValidator(locale.PhoneShapeValidator{})
}

func startSession(t *testing.T, b *SessionBuilder) *Session {
	t.Helper()
	sess, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, sess.Start(context.Background()))
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func TestBuild_RequiresBackend(t *testing.T) {
	_, err := NewSession().Build()
	require.ErrorIs(t, err, ErrNoBackend)
}

func TestSession_StartLoadsDeliveryOptions(t *testing.T) {
	sess := startSession(t, newBuilder(newStub(t, backend.Config{})))

	require.Eventually(t, func() bool {
		st := sess.State()
		return len(st.DeliveryDetails.AvailableMethods) == 4 && st.PendingMessage == MessageNone
	}, waitFor, 5*time.Millisecond)

	// A later synchronous call gets the cached details.
	details, err := sess.Bootstrap(context.Background())
	require.NoError(t, err)
	require.Equal(t, backend.DefaultDeliveryMethods(), details.AvailableMethods)
}

func TestSession_StartTwice(t *testing.T) {
	sess := startSession(t, newBuilder(newStub(t, backend.Config{})))
	require.ErrorIs(t, sess.Start(context.Background()), ErrSessionStarted)
}

func TestSession_BootstrapFailureSurfacesConnectionError(t *testing.T) {
	stub := newStub(t, backend.Config{SimulateFailure: true})
	sess := startSession(t, newBuilder(stub))

	require.Eventually(t, func() bool {
		return sess.State().PendingMessage == MessageConnectionError
	}, waitFor, 5*time.Millisecond)
	require.Empty(t, sess.State().DeliveryDetails.AvailableMethods)
}

func TestSession_SignInAdvancesToDeliveryMethod(t *testing.T) {
	sess := startSession(t, newBuilder(newStub(t, backend.Config{})))
	ctx := context.Background()

	events := []Event{
		SignInButtonClicked{},
		SignInFieldChanged{Field: SignInUsername, Value: "lorem"},
		SignInFieldChanged{Field: SignInPassword, Value: "loremipsum"},
		SignInConfirmed{},
	}
	for _, ev := range events {
		_, err := sess.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return sess.State().Stage == StageDeliveryMethod
	}, waitFor, 5*time.Millisecond)

	st := sess.State()
	require.True(t, st.RecipientData.IsSignedIn)
	require.Equal(t, "Lorem", st.RecipientData.Name.Value())
	require.Equal(t, "lorem@ipsum.com", st.RecipientData.Email.Value())
	require.False(t, st.SignInPending)
}

func TestSession_SignInUnknownUser(t *testing.T) {
	sess := startSession(t, newBuilder(newStub(t, backend.Config{})))
	ctx := context.Background()

	for _, ev := range []Event{
		SignInFieldChanged{Field: SignInUsername, Value: "nobody"},
		SignInFieldChanged{Field: SignInPassword, Value: "whatever1"},
		SignInConfirmed{},
	} {
		_, err := sess.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return sess.State().PendingMessage == MessageUserNotFound
	}, waitFor, 5*time.Millisecond)

	st, err := sess.Dispatch(ctx, UserMessageAcknowledged{})
	require.NoError(t, err)
	require.Equal(t, MessageNone, st.PendingMessage)
	require.Equal(t, StageRecipientData, st.Stage)
	require.False(t, st.RecipientData.IsSignedIn)
}

func TestSession_CheckoutRunsOnWorker(t *testing.T) {
	var calls atomic.Int32
	done := make(chan WizardState, 1)
	b := newBuilder(newStub(t, backend.Config{})).
		WithCheckout(func(ctx context.Context, st WizardState) error {
			calls.Add(1)
			done <- st
			return nil
		})
	sess := startSession(t, b)
	ctx := context.Background()

	_, err := sess.Bootstrap(ctx)
	require.NoError(t, err)

	for _, ev := range []Event{
		RecipientFieldChanged{Field: RecipientName, Value: "jan"},
		RecipientFieldChanged{Field: RecipientSurname, Value: "kowalski"},
		RecipientFieldChanged{Field: RecipientEmail, Value: "Jan@Example.com"},
		PhoneNumberChanged{Value: "512345678"},
		NextButtonClicked{},
		DeliveryMethodSelected{ID: 2},
		NextButtonClicked{},
	} {
		_, err := sess.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	select {
	case st := <-done:
		require.Equal(t, StageDeliveryMethod, st.Stage)
		require.NotNil(t, st.DeliveryDetails.Selected)
		require.Equal(t, "Paczkomat", st.DeliveryDetails.Selected.DisplayName)
		require.Equal(t, "Jan", st.RecipientData.Name.Value())
	case <-time.After(waitFor):
		t.Fatalf("checkout was not called")
	}
	require.Equal(t, int32(1), calls.Load())
}

func TestSession_CloseDropsLateResults(t *testing.T) {
	stub := newStub(t, backend.Config{Delay: 200 * time.Millisecond})
	sess, err := newBuilder(stub).Build()
	require.NoError(t, err)
	require.NoError(t, sess.Start(context.Background()))

	ctx := context.Background()
	for _, ev := range []Event{
		SignInFieldChanged{Field: SignInUsername, Value: "lorem"},
		SignInFieldChanged{Field: SignInPassword, Value: "loremipsum"},
		SignInConfirmed{},
	} {
		_, err := sess.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())

	st := sess.State()
	require.Equal(t, StageRecipientData, st.Stage)
	require.False(t, st.RecipientData.IsSignedIn)

	_, err = sess.Dispatch(ctx, NextButtonClicked{})
	require.ErrorIs(t, err, ErrSessionClosed)
	require.ErrorIs(t, sess.Start(ctx), ErrSessionClosed)
}

func TestSession_ObserversAndRetry(t *testing.T) {
	stub := newStub(t, backend.Config{SimulateFailure: true})
	metrics := &BasicMetrics{}

	b := newBuilder(stub).
		WithObserver(metrics).
		WithRetry(Retry(3).Immediate().Policy())
	sess, err := b.Build()
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Bootstrap(context.Background())
	require.True(t, errors.Is(err, ErrConnection), "got %v", err)

	snap := metrics.Snapshot()
	require.Equal(t, int64(3), snap.CollaboratorCalls)
	require.Equal(t, int64(3), snap.CollaboratorFailures)
	require.Equal(t, int64(1), snap.ActiveSessions)
}

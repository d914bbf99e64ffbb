package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/wizflow"
	"github.com/petrijr/wizflow/internal/backend"
	"github.com/petrijr/wizflow/internal/locale"
	"github.com/petrijr/wizflow/pkg/api"
)

const (
	waitTimeout     = 30 * time.Second
	checkoutTimeout = 10 * time.Second
)

var errCheckoutTimeout = errors.New("checkout did not complete")

func runCmd(c *cli) *cobra.Command {
	var (
		script          string
		simulateFailure bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk through the checkout wizard",
		Long:  "Walk through the checkout wizard. Commands are read line by line from stdin or from --script.\n\n" + usage,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			if cmd.Flags().Changed("simulate-failure") {
				c.app.cfg.Backend.SimulateFailure = simulateFailure
			}
			return c.app.runWizard(cmd.Context(), in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&script, "script", "f", "", "read commands from file instead of stdin")
	cmd.Flags().BoolVar(&simulateFailure, "simulate-failure", false, "make every backend call fail with a connection error")
	return cmd
}

func (a *app) runWizard(ctx context.Context, in io.Reader, out io.Writer) error {
	lang := a.language()
	dict, err := locale.NewLoader(lang).Load(ctx)
	if err != nil {
		return fmt.Errorf("load countries: %w", err)
	}
	country := locale.DefaultCountry(a.localeName(), dict)

	delay := a.cfg.Backend.Delay
	if delay == 0 {
		delay = -1
	}
	stub := backend.NewStub(a.store.Directory, backend.Config{
		Delay:           delay,
		SimulateFailure: a.cfg.Backend.SimulateFailure,
		Countries:       dict,
		DefaultCountry:  country,
		Hasher:          a.hasher,
	})

	policy := api.Policy{
		RequireDeliveryMethod:   a.cfg.Wizard.RequireDeliveryMethod,
		SurfaceBootstrapFailure: a.cfg.Wizard.SurfaceBootstrapFailure,
	}
	retry := wizflow.Retry(a.cfg.Wizard.RetryAttempts).
		WithExponentialBackoff(a.cfg.Wizard.RetryBackoff, 2, 0).
		Policy()

	done := make(chan api.WizardState, 1)
	sess, err := wizflow.NewSession().
		WithBackend(stub).
		WithUsers(stub).
		WithCountry(country).
		WithPhoneValidator(locale.PhoneShapeValidator{}).
		WithPolicy(policy).
		WithRetry(retry).
		WithWorkers(a.cfg.Wizard.Workers).
		WithLogger(a.logger).
		WithObserver(wizflow.NewLoggingObserver(a.logger)).
		WithObserver(wizflow.NewHistoryObserver(a.store.Events, a.logger)).
		WithCheckout(func(ctx context.Context, st api.WizardState) error {
			select {
			case done <- st:
			default:
			}
			return nil
		}).
		Build()
	if err != nil {
		return err
	}
	defer sess.Close()

	w := &syncWriter{w: out}
	r := &renderer{w: w, res: locale.NewResolver(lang), last: sess.State()}
	unsubscribe := sess.Subscribe(r.onState)
	defer unsubscribe()

	fmt.Fprintf(w, "session %s\n", sess.ID())
	if err := sess.Start(ctx); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		cmd, err := parseLine(sc.Text(), dict)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}

		switch cmd.action {
		case actionNone:
		case actionQuit:
			return nil
		case actionHelp:
			_, _ = io.WriteString(w, usage)
		case actionShow:
			r.render(sess.State())
		case actionWait:
			if err := waitIdle(ctx, sess, waitTimeout); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}
		case actionEvent:
			prev := sess.State()
			st, err := sess.Dispatch(ctx, cmd.event)
			if err != nil {
				return err
			}
			if !completesCheckout(cmd.event, prev, st, policy) {
				continue
			}
			select {
			case final := <-done:
				r.summary(final)
				return nil
			case <-time.After(checkoutTimeout):
				return errCheckoutTimeout
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return sc.Err()
}

// completesCheckout reports whether ev finished the last stage, which hands
// the state to the checkout continuation.
func completesCheckout(ev api.Event, prev, next api.WizardState, policy api.Policy) bool {
	if _, ok := ev.(api.NextButtonClicked); !ok {
		return false
	}
	return prev.Stage == api.StageDeliveryMethod && next.DeliveryDetails.IsValid(policy)
}

// waitIdle waits for the delivery options fetch and any pending sign-in.
// A failed fetch is reported through the state, so its error is dropped.
func waitIdle(ctx context.Context, sess *wizflow.Session, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	changed := make(chan struct{}, 1)
	unsubscribe := sess.Subscribe(func(api.WizardState) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if _, err := sess.Bootstrap(ctx); err != nil && ctx.Err() != nil {
		return fmt.Errorf("wait: %w", ctx.Err())
	}
	for sess.State().SignInPending {
		select {
		case <-changed:
		case <-ctx.Done():
			return fmt.Errorf("wait: %w", ctx.Err())
		}
	}
	return nil
}

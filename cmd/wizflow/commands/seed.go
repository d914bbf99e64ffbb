package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrijr/wizflow/internal/backend"
)

func seedCmd(c *cli) *cobra.Command {
	var in backend.AccountInput
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the delivery methods and the demo account, optionally registering another account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := c.app.store.Directory
			out := cmd.OutOrStdout()

			if err := backend.Seed(ctx, dir, c.app.hasher); err != nil {
				return err
			}
			fmt.Fprintf(out, "Seeded %d delivery methods and account %q\n",
				len(backend.DefaultDeliveryMethods()), backend.DemoAccount.Username)

			if in.Username == "" {
				return nil
			}
			acc, err := backend.Register(ctx, dir, c.app.hasher, in)
			if err != nil {
				return fmt.Errorf("register %q: %w", in.Username, err)
			}
			fmt.Fprintf(out, "Registered account %q (%s)\n", acc.Username, acc.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "register an extra account with this username")
	f.StringVar(&in.Email, "email", "", "email of the extra account")
	f.StringVar(&in.Password, "password", "", "password of the extra account (letters and digits, at least 8)")
	f.StringVar(&in.Name, "name", "", "first name of the extra account")
	f.StringVar(&in.Surname, "surname", "", "surname of the extra account")
	f.StringVar(&in.PhoneNumber, "phone", "", "phone number of the extra account, without calling code")
	f.StringVar(&in.CountryTag, "country", "", "phone country tag of the extra account, e.g. PL")
	return cmd
}

package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/wizflow/internal/config"
)

type cli struct {
	configPath string
	app        *app
}

// Execute runs the wizflow command line.
func Execute() error {
	return execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		err = errors.Join(err, c.app.Close())
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "wizflow",
		Short:         "Two-stage checkout wizard",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.app, err = openApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			return err
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $WIZFLOW_CONFIG or ~/.config/wizflow/config.toml)")

	root.AddCommand(runCmd(c), countriesCmd(c), seedCmd(c), historyCmd(c))
	return root
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func historyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history [session-id]",
		Short: "List recorded sessions, or the events of one session",
		Long:  "List recorded sessions, or the events of one session. History survives the process only with the sqlite storage driver.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			events := c.app.store.Events
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				ids, err := events.ListSessions(ctx)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(out, "No sessions recorded")
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			list, err := events.ListEvents(ctx, args[0])
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no events for session %q", args[0])
			}
			for _, ev := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
					ev.At.Format(time.RFC3339), ev.Type, ev.Stage, ev.Detail)
			}
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/petrijr/wizflow/internal/locale"
)

func countriesCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "countries [filter]",
		Short: "List the countries available for phone numbers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := c.app.language()
			if lang != "" {
				t, err := language.Parse(lang)
				if err != nil {
					return fmt.Errorf("invalid --lang %q: %w", lang, err)
				}
				tag = t
			}

			dict, err := locale.NewLoader(tag).Load(cmd.Context())
			if err != nil {
				return err
			}

			var filter string
			if len(args) == 1 {
				filter = strings.ToLower(args[0])
			}
			out := cmd.OutOrStdout()
			for _, country := range dict.Sorted() {
				if filter != "" &&
					!strings.Contains(strings.ToLower(country.DisplayName), filter) &&
					strings.ToLower(country.Tag) != filter {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", country.Tag, country.FormattedCallingCode(), country.DisplayName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language for country names, e.g. pl (default from locale)")
	return cmd
}

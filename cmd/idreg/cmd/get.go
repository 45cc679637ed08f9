package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idregistry/pkg/idregistry"
)

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the label for an id",
		Long: `Print the label registered for an id.

Exits non-zero when the id has no label.

Examples:
  idreg get 1 --config registry.yaml`,

		// idArgs parses flags so negative ids stay positional.
		DisableFlagParsing: true,

		RunE: idArgs(1, a.withRegistry(func(cmd *cobra.Command, args []string) error {
			id, err := idregistry.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			label, err := a.registry.Lookup(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		})),
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idregistry/pkg/idregistry"
)

func newSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <label>",
		Short: "Register a label for an id",
		Long: `Register a label for an id, replacing any existing label.

The change is persisted only when the config selects the sqlite store driver.

Examples:
  idreg set 3 pressure-sensor --config registry.yaml`,

		// idArgs parses flags so negative ids stay positional.
		DisableFlagParsing: true,

		RunE: idArgs(2, a.withRegistry(func(cmd *cobra.Command, args []string) error {
			id, err := idregistry.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return a.registry.Register(id, idregistry.Label(args[1]))
		})),
	}
}

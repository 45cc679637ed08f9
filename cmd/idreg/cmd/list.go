package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registrations ordered by id",
		Args:  cobra.NoArgs,
		RunE: a.withRegistry(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, e := range a.registry.Entries() {
				fmt.Fprintf(out, "%d\t%s\n", e.ID, e.Label)
			}
			return nil
		}),
	}
}

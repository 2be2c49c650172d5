package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/muse/internal/wire"
)

// PersonaCmd returns the persona command
func PersonaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Inspect the persona catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List personas",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			wire.PersonaAdapter().List()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PersonaAdapter().Show(args[0])
		},
	})

	return cmd
}

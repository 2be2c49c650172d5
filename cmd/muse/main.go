package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/muse/internal/cli"
	"github.com/example/muse/internal/version"
	"github.com/example/muse/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "muse",
		Short:   "muse - a digital persona that thinks, plans and makes things",
		Version: version.String(),
		Long: `muse runs personas through thoughts: each thought elicits a task,
develops a plan of tool steps, and executes them one at a time, writing
journal entries, art, blog posts and social posts along the way.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.StartRun()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			wire.Close()
		},
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ThoughtCmd())
	rootCmd.AddCommand(cli.ContentCmd())
	rootCmd.AddCommand(cli.PersonaCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		wire.Close()
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/muse/internal/wire"
)

// ThoughtCmd returns the thought command
func ThoughtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thought",
		Short: "Start, plan and advance persona thoughts",
		Long: `A thought is one task a persona decides to do, the plan to do it,
and the steps executed so far. Every change is stored as a new version.`,
	}

	cmd.AddCommand(thoughtStartCmd())
	cmd.AddCommand(thoughtPlanCmd())
	cmd.AddCommand(thoughtContinueCmd())
	cmd.AddCommand(thoughtRunCmd())
	cmd.AddCommand(thoughtShowCmd())
	cmd.AddCommand(thoughtListCmd())
	cmd.AddCommand(thoughtHistoryCmd())

	return cmd
}

func thoughtStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [persona]",
		Short: "Elicit a new thought for a persona",
		Long: `Ask the persona what it wants to do next and store the answer as
version 1 of a new thought.

Examples:
  muse thought start "Lucas Darkthorn"
  muse thought start "Mira Vance" --nudge "something about the sea"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nudge, _ := cmd.Flags().GetString("nudge")
			_, err := wire.ThoughtAdapter().Start(NewContext(), args[0], nudge)
			return err
		},
	}
	cmd.Flags().String("nudge", "", "Optional hint steering the persona")
	return cmd
}

func thoughtPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [thought-id]",
		Short: "Develop the plan for an elicited thought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ThoughtAdapter().Plan(NewContext(), args[0])
			return err
		},
	}
}

func thoughtContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue [thought-id]",
		Short: "Execute the next step of a thought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ThoughtAdapter().Continue(NewContext(), args[0])
			return err
		},
	}
}

func thoughtRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [thought-id]",
		Short: "Plan if needed and execute every remaining step",
		Long: `Run a thought to completion. Interrupting stops after the current
step; the thought keeps every step finished so far and can be resumed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := NewSignalContext()
			defer stop()
			_, err := wire.ThoughtAdapter().Run(ctx, args[0])
			return err
		},
	}
}

func thoughtShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [thought-id] [version]",
		Short: "Show a thought (latest version unless one is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := 0
			if len(args) == 2 {
				v, err := strconv.Atoi(args[1])
				if err != nil || v < 1 {
					return fmt.Errorf("invalid version %q", args[1])
				}
				version = v
			}
			_, err := wire.ThoughtAdapter().Show(NewContext(), args[0], version)
			return err
		},
	}
}

func thoughtListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List thoughts",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			persona, _ := cmd.Flags().GetString("persona")
			limit, _ := cmd.Flags().GetInt("limit")
			return wire.ThoughtAdapter().List(NewContext(), status, persona, limit)
		},
	}
	cmd.Flags().StringP("status", "s", "", "Filter by status (incomplete, complete)")
	cmd.Flags().StringP("persona", "p", "", "Filter completed thoughts by persona")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of thoughts")
	return cmd
}

func thoughtHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [thought-id]",
		Short: "List every version of a thought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ThoughtAdapter().History(NewContext(), args[0])
		},
	}
}

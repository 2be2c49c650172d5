package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/muse/internal/wire"
)

// ContentCmd returns the content command
func ContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Browse art, journal entries, blog posts and social posts",
	}

	cmd.AddCommand(contentShowCmd())
	cmd.AddCommand(contentListCmd())
	cmd.AddCommand(contentArtCmd())

	return cmd
}

func contentShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [Kind:content-id]",
		Short: "Show one piece of content",
		Long: `Show content by its type-qualified id, as listed by a thought.

Examples:
  muse content show BlogEntry:20240309183012a1b2c3d4e5
  muse content show JournalEntry:20240309183004f00dfeed12 --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			adapter, err := wire.ContentAdapter(raw)
			if err != nil {
				return err
			}
			return adapter.Show(NewContext(), args[0])
		},
	}
	cmd.Flags().Bool("raw", false, "Print Markdown without terminal rendering")
	return cmd
}

func contentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [kind]",
		Short: "List the latest content of a kind",
		Long: `Kinds: Art, JournalEntry, BlogEntry, SocialPost.

Examples:
  muse content list BlogEntry
  muse content list Art --persona "Lucas Darkthorn" -n 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			persona, _ := cmd.Flags().GetString("persona")
			limit, _ := cmd.Flags().GetInt("limit")
			adapter, err := wire.ContentAdapter(true)
			if err != nil {
				return err
			}
			return adapter.List(NewContext(), args[0], persona, limit)
		},
	}
	cmd.Flags().StringP("persona", "p", "", "Filter by persona")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries")
	return cmd
}

func contentArtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "art [art-id]",
		Short: "Print an artwork's location or export its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			adapter, err := wire.ContentAdapter(true)
			if err != nil {
				return err
			}
			return adapter.ExportArt(NewContext(), args[0], out)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the image to this file")
	return cmd
}

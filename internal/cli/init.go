package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/muse/internal/config"
	"github.com/example/muse/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the muse home directory",
		Long: `Write a default config.yaml to $MUSE_HOME (or ~/.muse) if none exists,
then create the database with the required schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.Home()
			if err != nil {
				return err
			}

			path := filepath.Join(home, config.FileName)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.Save(home, config.Default(home)); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", path)
			} else {
				fmt.Printf("Config already exists at %s\n", path)
			}

			if err := wire.Init(); err != nil {
				return err
			}
			fmt.Printf("✓ Database initialized at %s\n", wire.Config().Database.Path)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  export GEMINI_API_KEY=...")
			fmt.Println("  muse persona list")
			fmt.Println("  muse thought start \"Lucas Darkthorn\"")

			return nil
		},
	}
}

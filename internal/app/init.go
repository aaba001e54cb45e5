package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andyballingall/prettygo/internal/config"
	"github.com/andyballingall/prettygo/internal/fsh"
)

// NewInitCmd returns a new cobra command that writes a starter config file.
func NewInitCmd(pathResolver fsh.PathResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Create a " + config.FileName + " file",
		Long:  `Write a commented ` + config.FileName + ` holding the default settings into the given directory (default: current directory).`,
		Args:  cobra.MaximumNArgs(1),
		Example: `
prettygo init
prettygo init ./my-project
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			} else {
				var err error
				if dir, err = pathResolver.DefaultRoot(); err != nil {
					return err
				}
			}

			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			path, err := config.WriteDefault(dir)
			if err != nil {
				return err
			}

			cmd.Printf("Created %s\n", path)
			return nil
		},
	}

	return cmd
}

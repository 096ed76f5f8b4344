package cli

import (
	"github.com/spf13/cobra"
)

var setupMigrate bool

func init() {
	setupCmd.Flags().BoolVarP(&setupMigrate, "migrate", "M", false, "Write the Gradle migration of the root project")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the root project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !setupMigrate {
			return cmd.Help()
		}
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.SetupMigrate(cmd.Context())
	},
}

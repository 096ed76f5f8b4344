package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	manageCmd.AddCommand(manageEngineCmd)
	rootCmd.AddCommand(manageCmd)
}

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Manage framework engines of the newest gradle project",
}

var manageEngineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Create the static and template directories declared in settings.py",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.ManageEngine()
	},
}

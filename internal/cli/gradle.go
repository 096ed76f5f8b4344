package cli

import (
	"github.com/spf13/cobra"
)

var gradleProduction bool

func init() {
	gradleCmd.Flags().BoolVarP(&gradleProduction, "production", "s", false, "Copy the newest gradle project and the root project to build/")
	rootCmd.AddCommand(gradleCmd)
}

var gradleCmd = &cobra.Command{
	Use:   "gradle",
	Short: "Produce a production build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !gradleProduction {
			return cmd.Help()
		}
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.GradleBuild()
	},
}

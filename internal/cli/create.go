package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "createproject <name>",
	Short: "Create a root project and reset config.py",
	Long: `Create the root project directory with its settings and URL files, and
rewrite config.py for it with fresh secrets. Any previous config.py,
including its gradle blocks, is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.Create(args[0])
	},
}

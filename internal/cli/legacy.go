package cli

import (
	"github.com/spf13/cobra"

	"github.com/emonic-labs/emonic-admin/internal/branding"
	"github.com/emonic-labs/emonic-admin/internal/config"
	"github.com/emonic-labs/emonic-admin/internal/projectlog"
	"github.com/emonic-labs/emonic-admin/internal/runtime"
)

var startProjectName string

var legacyRootCmd = &cobra.Command{
	Use:               branding.LegacyCLIName(),
	Short:             "Create and run Emonic framework projects",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	addGlobalFlags(legacyRootCmd)

	startProjectCmd.Flags().StringVarP(&startProjectName, "projectname", "i", "", "Name of the project to create")
	_ = startProjectCmd.MarkFlagRequired("projectname")

	legacyManageCmd.AddCommand(legacyEngineCmd)
	legacyRootCmd.AddCommand(startProjectCmd, runServerCmd, legacyManageCmd)
}

// ExecuteLegacy runs the emonic command tree.
func ExecuteLegacy(version, commit, date string) error {
	setBuildInfo(version, commit, date)
	return run(legacyRootCmd)
}

var startProjectCmd = &cobra.Command{
	Use:   "startproject",
	Short: "Create a framework project with app.py and modules.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.StartProject(startProjectName, projectlog.Open(w.Fs, w.Dir))
	},
}

var runServerCmd = &cobra.Command{
	Use:   "runserver <name>",
	Short: "Run <name>/app.py with the configured Python interpreter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		rt := &runtime.PythonRuntime{
			Interpreter: config.Get(config.KeyPython),
			Stdin:       cmd.InOrStdin(),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		}
		return w.RunServer(cmd.Context(), args[0], rt)
	},
}

var legacyManageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Manage engines of the most recently started project",
}

var legacyEngineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Create views/ and static/ and add the engine modules to modules.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		return w.ManageRecentEngine(projectlog.Open(w.Fs, w.Dir))
	},
}

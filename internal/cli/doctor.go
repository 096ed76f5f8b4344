package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/emonic-labs/emonic-admin/internal/config"
	"github.com/emonic-labs/emonic-admin/internal/lifecycle"
	"github.com/emonic-labs/emonic-admin/internal/runtime"
)

var doctorSkipPython bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorSkipPython, "skip-python", false, "Do not probe the Python interpreter")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the state of the workspace",
	Long: `Run read-only checks on the workspace: config.py, the root project, its
migration, gradle builds, engine directories, the production build and the
Python interpreter used by runserver.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Workspace %s:\n", w.Dir)
		printChecks(out, w.Status())

		if !doctorSkipPython {
			fmt.Fprintln(out, "Runtime check:")
			printChecks(out, []lifecycle.Check{pythonCheck(cmd)})
		}
		return nil
	},
}

func printChecks(w io.Writer, checks []lifecycle.Check) {
	for _, c := range checks {
		tag := "[ OK ]"
		if !c.OK {
			tag = "[MISS]"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", tag, c.Name, c.Detail)
	}
}

func pythonCheck(cmd *cobra.Command) lifecycle.Check {
	rt := &runtime.PythonRuntime{Interpreter: config.Get(config.KeyPython)}
	name := "python " + rt.Interpreter

	v, err := rt.Version(cmd.Context())
	if err != nil {
		return lifecycle.Check{Name: name, Detail: err.Error()}
	}
	ok, err := runtime.CheckPython(v)
	if err != nil {
		return lifecycle.Check{Name: name, Detail: err.Error()}
	}
	if !ok {
		return lifecycle.Check{Name: name, Detail: fmt.Sprintf("%s is outside %s", v, runtime.SupportedPython)}
	}
	return lifecycle.Check{Name: name, OK: true, Detail: v.String()}
}

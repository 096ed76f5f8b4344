package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emonic-labs/emonic-admin/internal/lifecycle"
	"github.com/emonic-labs/emonic-admin/internal/record"
)

const newProjectItem = "<new gradle project>"

var buildProject string

func init() {
	buildCmd.Flags().StringVarP(&buildProject, "project", "p", "", "Name of the gradle project to build")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a gradle project from the migrated root project",
	Long: `Build a gradle project: register it in the root INSTALLED_APPS, scaffold its
directory and settings, and prepend its block to the GRADLE list of config.py.

Without --project the name is asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace(cmd)
		if err != nil {
			return err
		}

		name := buildProject
		if name == "" {
			if name, err = askProjectName(w); err != nil {
				return err
			}
		}
		return w.Build(cmd.Context(), name)
	},
}

// askProjectName offers the existing gradle projects, or asks for a new name.
func askProjectName(w *lifecycle.Workspace) (string, error) {
	existing, err := record.ReadGradleProjects(w.Fs, w.Dir)
	if err != nil && !isMissingRecord(err) {
		return "", err
	}

	if len(existing) > 0 {
		items := append(existing, newProjectItem)
		_, choice, err := prompter.Select("Gradle project", items, existing[0])
		if err != nil {
			return "", err
		}
		if choice != newProjectItem {
			return choice, nil
		}
	}

	name, err := prompter.Prompt("Gradle project name")
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if err := lifecycle.ValidateName(name); err != nil {
		return "", fmt.Errorf("build: %w", err)
	}
	return name, nil
}

func isMissingRecord(err error) bool {
	var me *record.MarkerError
	return errors.Is(err, record.ErrConfigNotFound) || errors.As(err, &me)
}

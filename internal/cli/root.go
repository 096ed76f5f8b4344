package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/emonic-labs/emonic-admin/internal/branding"
	"github.com/emonic-labs/emonic-admin/internal/config"
	"github.com/emonic-labs/emonic-admin/internal/lifecycle"
	"github.com/emonic-labs/emonic-admin/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	flagWorkdir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds Emonic web projects: it creates a root project, sets up
its Gradle migration, builds gradle projects from it, prepares the static and template
engine directories and copies a production build.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	addGlobalFlags(rootCmd)
}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flagWorkdir, "workdir", "", "Workspace directory (default: current directory)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// setup loads configuration and installs the default logger before any
// command runs.
func setup(cmd *cobra.Command, _ []string) error {
	config.Load()

	level := flagLogLevel
	if level == "" {
		level = config.Get(config.KeyLogLevel)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  lvl,
		Format: config.Get(config.KeyLogFormat),
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// workspace resolves the workspace directory from --workdir, the workdir
// setting or the current directory.
func workspace(cmd *cobra.Command) (*lifecycle.Workspace, error) {
	dir := flagWorkdir
	if dir == "" {
		dir = config.Get(config.KeyWorkdir)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", abs)
	}

	return &lifecycle.Workspace{
		Fs:      afero.NewOsFs(),
		Dir:     abs,
		Out:     cmd.OutOrStdout(),
		Logger:  logging.ForComponent("lifecycle"),
		Pacing:  config.Pacing(),
		Exclude: config.BuildExclude(),
	}, nil
}

// Execute runs the emonic-admin command tree with build info injected via
// ldflags. An empty version falls back to the embedded branding version.
func Execute(version, commit, date string) error {
	setBuildInfo(version, commit, date)
	return run(rootCmd)
}

func setBuildInfo(version, commit, date string) {
	if version == "" {
		version = branding.Version()
	}
	buildVersion = version
	buildCommit = commit
	buildDate = date
}

// run executes root with a context cancelled on interrupt and prints the
// error, if any, as a single line.
func run(root *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *lifecycle.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

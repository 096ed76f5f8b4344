package lifecycle

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/logging"
	"github.com/emonic-labs/emonic-admin/internal/materialize"
)

// Command names used in OpError.
const (
	OpCreate       = "createproject"
	OpSetupMigrate = "setup --migrate"
	OpBuild        = "build"
	OpManageEngine = "manage engine"
	OpGradleBuild  = "gradle --production"
	OpStartProject = "startproject"
	OpRunServer    = "runserver"
)

// BuildDir is the gradle --production output directory in the workspace.
const BuildDir = "build"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateName checks that name is usable as a single directory name.
func ValidateName(name string) error {
	if name == "." || name == ".." || !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// checkRecorded validates a project name read back from file, which may
// have been edited by hand.
func checkRecorded(file, name string) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

// Workspace is the directory the commands operate in.
type Workspace struct {
	Fs  afero.Fs
	Dir string // absolute workspace directory
	// Out receives status lines and banners; nil discards them.
	Out    io.Writer
	Logger *slog.Logger
	// Pacing is the pause before migrate and build banners.
	Pacing time.Duration
	// Rand is the entropy source for secrets; nil means crypto/rand.
	Rand io.Reader
	// Exclude lists doublestar patterns skipped by gradle --production.
	Exclude []string
}

func (w *Workspace) out() io.Writer {
	if w.Out == nil {
		return io.Discard
	}
	return w.Out
}

func (w *Workspace) logger() *slog.Logger {
	return logging.OrDiscard(w.Logger)
}

func (w *Workspace) rand() io.Reader {
	if w.Rand == nil {
		return rand.Reader
	}
	return w.Rand
}

func (w *Workspace) materializer() *materialize.Materializer {
	return materialize.New(w.Fs, w.out(), w.logger())
}

// ProjectDir returns the directory of project name.
func (w *Workspace) ProjectDir(name string) string {
	return filepath.Join(w.Dir, name)
}

func (w *Workspace) pace(ctx context.Context) error {
	if w.Pacing <= 0 {
		return nil
	}
	t := time.NewTimer(w.Pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package lifecycle

import (
	"errors"
	"fmt"

	"github.com/emonic-labs/emonic-admin/internal/record"
)

var (
	// ErrInvalidName means a project name is not a single safe path segment.
	ErrInvalidName = errors.New("invalid project name")
	// ErrMigrationMissing means the root project has no Gradle/migration.py.
	ErrMigrationMissing = record.ErrMigrationNotFound
	// ErrProjectMissing means a recorded project directory does not exist.
	ErrProjectMissing = errors.New("project directory does not exist")
	// ErrEngineDirsMissing means settings.py lacks the static folder or the
	// template DIRS.
	ErrEngineDirsMissing = errors.New("static folder and/or DIRS value not found in settings.py")
	// ErrUnsafePath means a directory declared in settings.py leaves its project.
	ErrUnsafePath = errors.New("path escapes the project directory")
	// ErrNoProjects means the legacy project log is empty.
	ErrNoProjects = errors.New("no projects have been created yet")
)

// OpError records the command that failed and why.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }

// ExitError reports a non-zero exit of a handed-off process.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with status %d", e.Code)
}

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

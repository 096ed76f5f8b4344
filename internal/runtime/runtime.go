package runtime

import (
	"context"
	"errors"
)

// Runtime executes a project's entry point.
type Runtime interface {
	// Run starts the entry point of the project in projectDir and blocks
	// until it exits or ctx is cancelled.
	Run(ctx context.Context, projectDir string) (*Output, error)
}

// Output captures the result of an execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// EntryPoint is the file executed inside a project directory.
const EntryPoint = "app.py"

var (
	// ErrAppNotFound means the project has no app.py.
	ErrAppNotFound = errors.New("app.py not found")
	// ErrInterpreterNotFound means the configured interpreter is not on PATH.
	ErrInterpreterNotFound = errors.New("python interpreter not found")
)

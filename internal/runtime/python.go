package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultInterpreter is used when PythonRuntime.Interpreter is empty.
const DefaultInterpreter = "python3"

// PythonRuntime runs app.py with a Python interpreter.
type PythonRuntime struct {
	// Interpreter is a command name or path; defaults to DefaultInterpreter.
	Interpreter string
	// Stdin, Stdout and Stderr can be set for testing; default to the
	// process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes `<interpreter> <project>/app.py` from the parent directory of
// projectDir. A non-zero exit is reported in Output, not as an error.
func (p *PythonRuntime) Run(ctx context.Context, projectDir string) (*Output, error) {
	entryPoint := filepath.Join(projectDir, EntryPoint)
	if info, err := os.Stat(entryPoint); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w at %s", ErrAppNotFound, entryPoint)
	}

	interpreter := p.Interpreter
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	bin, err := exec.LookPath(interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, interpreter, err)
	}

	parent, name := filepath.Split(filepath.Clean(projectDir))
	cmd := exec.CommandContext(ctx, bin, filepath.Join(name, EntryPoint))
	cmd.Dir = parent
	cmd.Env = setEnv(os.Environ(), "EMONIC_PROJECT", name)

	stdin := p.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := p.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := p.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return output, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", entryPoint, err)
	}
	return output, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

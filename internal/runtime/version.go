package runtime

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportedPython is the interpreter range the generated projects target.
const SupportedPython = ">= 3.8"

// Version runs `<interpreter> --version` and parses the reported version.
func (p *PythonRuntime) Version(ctx context.Context) (*semver.Version, error) {
	interpreter := p.Interpreter
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	bin, err := exec.LookPath(interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, interpreter, err)
	}

	// Python 2 and early 3.x print the version on stderr.
	out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("running %s --version: %w", interpreter, err)
	}
	return ParsePythonVersion(string(out))
}

// ParsePythonVersion parses output such as "Python 3.11.4".
func ParsePythonVersion(output string) (*semver.Version, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 || fields[0] != "Python" {
		return nil, fmt.Errorf("unexpected version output %q", strings.TrimSpace(output))
	}
	v, err := semver.NewVersion(strings.TrimPrefix(fields[1], "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing python version %q: %w", fields[1], err)
	}
	return v, nil
}

// CheckPython reports whether v is within SupportedPython.
func CheckPython(v *semver.Version) (bool, error) {
	c, err := semver.NewConstraint(SupportedPython)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

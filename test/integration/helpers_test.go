//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/config"
	"github.com/emonic-labs/emonic-admin/internal/lifecycle"
)

// testEnv holds an isolated workspace on the real filesystem.
type testEnv struct {
	HomeDir   string // HOME, so ~/.emonic is sandboxed
	Workspace *lifecycle.Workspace
	Out       *bytes.Buffer
}

// setupTestEnv creates a temp workspace and HOME. The env vars are restored
// after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{HomeDir: t.TempDir(), Out: &bytes.Buffer{}}
	t.Setenv("HOME", env.HomeDir)

	env.Workspace = &lifecycle.Workspace{
		Fs:      afero.NewOsFs(),
		Dir:     t.TempDir(),
		Out:     env.Out,
		Exclude: config.DefaultBuildExclude,
	}
	return env
}

// path joins elem onto the workspace directory.
func (e *testEnv) path(elem ...string) string {
	return filepath.Join(append([]string{e.Workspace.Dir}, elem...)...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

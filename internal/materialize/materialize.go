package materialize

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/emonic-labs/emonic-admin/internal/logging"
	"github.com/spf13/afero"
)

// Permission constants.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Materializer performs filesystem mutations and reports each one to out.
type Materializer struct {
	fs     afero.Fs
	out    io.Writer
	logger *slog.Logger
}

// New returns a Materializer over fs. A nil out discards status lines and a
// nil logger discards diagnostics.
func New(fs afero.Fs, out io.Writer, logger *slog.Logger) *Materializer {
	if out == nil {
		out = io.Discard
	}
	return &Materializer{fs: fs, out: out, logger: logging.OrDiscard(logger)}
}

// FileSystem exposes the underlying filesystem.
func (m *Materializer) FileSystem() afero.Fs {
	return m.fs
}

// EnsureDir creates path and any missing parents. It reports whether the
// directory was created; an existing directory is not an error.
func (m *Materializer) EnsureDir(path string) (bool, error) {
	if info, err := m.fs.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(m.out, "  [SKIP] %s already exists\n", path)
			return false, nil
		}
		return false, fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := m.fs.MkdirAll(path, DirPerm); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", path, err)
	}
	m.logger.Debug("directory created", "path", path)
	fmt.Fprintf(m.out, "  [ OK ] Created %s\n", path)
	return true, nil
}

// EnsureFile creates path with content if it does not exist. Existing files
// are never truncated.
func (m *Materializer) EnsureFile(path, content string) (bool, error) {
	if _, err := m.fs.Stat(path); err == nil {
		fmt.Fprintf(m.out, "  [SKIP] %s already exists\n", path)
		return false, nil
	}

	if err := afero.WriteFile(m.fs, path, []byte(content), FilePerm); err != nil {
		return false, fmt.Errorf("creating file %s: %w", path, err)
	}
	m.logger.Debug("file created", "path", path, "bytes", len(content))
	fmt.Fprintf(m.out, "  [ OK ] Created %s\n", path)
	return true, nil
}

// WriteFile creates or truncates path with content.
func (m *Materializer) WriteFile(path, content string) error {
	if err := afero.WriteFile(m.fs, path, []byte(content), FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	m.logger.Debug("file written", "path", path, "bytes", len(content))
	fmt.Fprintf(m.out, "  [ OK ] Wrote %s\n", path)
	return nil
}

// Remove deletes the file at path if present and reports whether it existed.
func (m *Materializer) Remove(path string) (bool, error) {
	exists, err := afero.Exists(m.fs, path)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return false, nil
	}
	if err := m.fs.Remove(path); err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	m.logger.Debug("file removed", "path", path)
	fmt.Fprintf(m.out, "  [ OK ] Removed %s\n", path)
	return true, nil
}

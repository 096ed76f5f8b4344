// Package projectlog persists the names of projects created by the legacy
// CLI, in creation order, as a gob-encoded list at <workdir>/project.gob.
package projectlog

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileName is the log file name inside the workspace.
const FileName = "project.gob"

var (
	// ErrEmpty means no project has been logged yet.
	ErrEmpty = errors.New("no projects found")
	// ErrCorrupt means the log file could not be decoded.
	ErrCorrupt = errors.New("project log is corrupt")
)

// Log is the Created-Projects Log of one workspace.
type Log struct {
	fs   afero.Fs
	path string
}

// Open returns the log of workdir. The file is not read until needed.
func Open(fsys afero.Fs, workdir string) *Log {
	return &Log{fs: fsys, path: filepath.Join(workdir, FileName)}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Names returns every logged name, oldest first. A missing file is an
// empty log.
func (l *Log) Names() ([]string, error) {
	data, err := afero.ReadFile(l.fs, l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", l.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var names []string
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&names); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, l.path, err)
	}
	return names, nil
}

// Append adds name to the end of the log and rewrites the file.
func (l *Log) Append(name string) error {
	names, err := l.Names()
	if err != nil {
		return err
	}
	names = append(names, name)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(names); err != nil {
		return fmt.Errorf("encoding project log: %w", err)
	}
	if err := afero.WriteFile(l.fs, l.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", l.path, err)
	}
	return nil
}

// Latest returns the most recently logged name.
func (l *Log) Latest() (string, error) {
	names, err := l.Names()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrEmpty
	}
	return names[len(names)-1], nil
}

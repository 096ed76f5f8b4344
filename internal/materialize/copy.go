package materialize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// ErrDestinationConflict is returned by CopyTree when the destination already
// holds a tree and merging was not requested.
var ErrDestinationConflict = errors.New("destination already exists")

// CopyOptions controls CopyTree.
type CopyOptions struct {
	// Merge copies into an existing destination, overwriting files.
	Merge bool
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the source root.
	Exclude []string
}

// CopyTree recursively copies the directory src to dst and returns the number
// of files copied. Symlinks and special files are skipped.
func (m *Materializer) CopyTree(src, dst string, opts CopyOptions) (int, error) {
	srcInfo, err := m.fs.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("reading source %s: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return 0, fmt.Errorf("source %s is not a directory", src)
	}

	if !opts.Merge {
		if err := m.checkDestination(dst); err != nil {
			return 0, err
		}
	}

	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return 0, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	copied := 0
	walkErr := afero.Walk(m.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// The destination may live inside the source (root copied into build/root).
		if path == dst || strings.HasPrefix(path, dst+string(filepath.Separator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && excluded(rel, opts.Exclude) {
			m.logger.Debug("copy excluded", "path", path)
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		switch {
		case info.IsDir():
			if err := m.fs.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case info.Mode().IsRegular():
			if err := m.copyFile(path, target, info.Mode().Perm()); err != nil {
				return err
			}
			copied++
		}
		return nil
	})
	if walkErr != nil {
		return copied, fmt.Errorf("copying %s to %s: %w", src, dst, walkErr)
	}

	m.logger.Debug("tree copied", "src", src, "dst", dst, "files", copied)
	fmt.Fprintf(m.out, "  [ OK ] Copied %s -> %s (%d files)\n", src, dst, copied)
	return copied, nil
}

func (m *Materializer) checkDestination(dst string) error {
	info, err := m.fs.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking destination %s: %w", dst, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w as a file", dst, ErrDestinationConflict)
	}
	empty, err := afero.IsEmpty(m.fs, dst)
	if err != nil {
		return fmt.Errorf("checking destination %s: %w", dst, err)
	}
	if !empty {
		return fmt.Errorf("%s: %w", dst, ErrDestinationConflict)
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func (m *Materializer) copyFile(src, dst string, perm os.FileMode) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := m.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// excluded reports whether rel matches any of the patterns.
func excluded(rel string, patterns []string) bool {
	slashed := filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

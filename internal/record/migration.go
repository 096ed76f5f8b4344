package record

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Gradle directory layout inside a root project.
const (
	GradleDir     = "Gradle"
	MigrationFile = "migration.py"
	BuildFile     = "build.py"
)

const (
	builderMarker   = "BUILDER"
	migrationMarker = `"migration": "gradle.migrate"`
)

// GradlePath returns the Gradle directory of a root project.
func GradlePath(projectDir string) string {
	return filepath.Join(projectDir, GradleDir)
}

// MigrationPath returns the Migration Record path of a root project.
func MigrationPath(projectDir string) string {
	return filepath.Join(projectDir, GradleDir, MigrationFile)
}

// ReadMigration returns the Migration Record text of projectDir.
func ReadMigration(fsys afero.Fs, projectDir string) (string, error) {
	data, err := afero.ReadFile(fsys, MigrationPath(projectDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrMigrationNotFound
		}
		return "", fmt.Errorf("reading %s: %w", MigrationFile, err)
	}
	return string(data), nil
}

// InitMarker is the BUILDER init entry naming project.
func InitMarker(project string) string {
	return `"init": "main:` + project + `:gradle"`
}

// CheckMigration verifies that content carries a BUILDER list initialised
// for project.
func CheckMigration(content, project string) error {
	if !strings.Contains(content, builderMarker) {
		return ErrBuilderMissing
	}
	if !strings.Contains(content, InitMarker(project)) || !strings.Contains(content, migrationMarker) {
		return ErrInvalidMigration
	}
	return nil
}

package record

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound means config.py is absent from the workspace.
	ErrConfigNotFound = errors.New("config.py does not exist")
	// ErrSettingsNotFound means a project has no settings.py.
	ErrSettingsNotFound = errors.New("settings.py does not exist")
	// ErrMigrationNotFound means a project has no Gradle/migration.py.
	ErrMigrationNotFound = errors.New("migration.py does not exist")
	// ErrBuilderMissing means migration.py lacks the BUILDER list.
	ErrBuilderMissing = errors.New("BUILDER list is missing in migration.py")
	// ErrInvalidMigration means the BUILDER list does not name this project.
	ErrInvalidMigration = errors.New("invalid migration configuration in migration.py")
	// ErrStaticDirsNotFound means settings.py declares neither a static
	// folder nor template directories.
	ErrStaticDirsNotFound = errors.New("static folder and DIRS value not found in settings.py")
	// ErrUnsupportedVersion means the gradle format version is outside the
	// range this tool writes.
	ErrUnsupportedVersion = errors.New("unsupported gradle version")
)

// MarkerError reports a marker that does not occur in a record.
type MarkerError struct {
	File   string
	Marker string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("%q not found in %s", e.Marker, e.File)
}

// ParseError reports a marker whose value is malformed, e.g. truncated
// before its closing delimiter.
type ParseError struct {
	File   string
	Marker string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s: value after %q %s", e.File, e.Marker, e.Reason)
}

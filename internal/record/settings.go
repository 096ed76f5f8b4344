package record

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SettingsFile is the Settings Record file name inside a project.
const SettingsFile = "settings.py"

const (
	installedAppsMarker = "INSTALLED_APPS = ["
	staticMarker        = "STATIC_FOLDER = "
	dirsMarker          = "'DIRS': ["
)

// StaticDirs are the static and template directories a project declares.
type StaticDirs struct {
	StaticFolder string
	TemplateDirs []string
}

// SettingsPath returns the Settings Record path of a project directory.
func SettingsPath(projectDir string) string {
	return filepath.Join(projectDir, SettingsFile)
}

// ReadSettings returns the Settings Record text of projectDir.
func ReadSettings(fsys afero.Fs, projectDir string) (string, error) {
	data, err := afero.ReadFile(fsys, SettingsPath(projectDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrSettingsNotFound
		}
		return "", fmt.Errorf("reading %s: %w", SettingsFile, err)
	}
	return string(data), nil
}

// ReadStaticDirs reads the static folder and template dirs of projectDir.
func ReadStaticDirs(fsys afero.Fs, projectDir string) (StaticDirs, error) {
	content, err := ReadSettings(fsys, projectDir)
	if err != nil {
		return StaticDirs{}, err
	}
	return ParseStaticDirs(content)
}

// ParseStaticDirs extracts STATIC_FOLDER and the TEMPLATES DIRS list. Either
// one may be absent, leaving its field empty; both absent is
// ErrStaticDirsNotFound.
func ParseStaticDirs(content string) (StaticDirs, error) {
	var dirs StaticDirs

	if i := strings.Index(content, staticMarker); i != -1 {
		line := content[i+len(staticMarker):]
		if n := strings.IndexByte(line, '\n'); n != -1 {
			line = line[:n]
		}
		dirs.StaticFolder = strings.Trim(line, " \t\r'\"")
	}

	body, err := valueAfter(content, SettingsFile, dirsMarker, "]")
	var missing *MarkerError
	switch {
	case err == nil:
		dirs.TemplateDirs = splitList(stripComments(body))
	case errors.As(err, &missing):
	default:
		return StaticDirs{}, err
	}

	if dirs.StaticFolder == "" && len(dirs.TemplateDirs) == 0 {
		return StaticDirs{}, ErrStaticDirsNotFound
	}
	return dirs, nil
}

// InstalledApps lists the entries of the INSTALLED_APPS list.
func InstalledApps(content string) ([]string, error) {
	body, err := listBody(content, SettingsFile, installedAppsMarker)
	if err != nil {
		return nil, err
	}
	return splitList(body), nil
}

// AddInstalledApp returns content with entry spliced in as the first element
// of INSTALLED_APPS. It reports false when entry is already listed.
func AddInstalledApp(content, entry string) (string, bool, error) {
	apps, err := InstalledApps(content)
	if err != nil {
		return "", false, err
	}
	for _, app := range apps {
		if app == entry {
			return content, false, nil
		}
	}

	i := strings.Index(content, installedAppsMarker) + len(installedAppsMarker)
	line := "\n    '" + entry + "',"
	return content[:i] + line + content[i:], true, nil
}

// GradleAppEntry is the INSTALLED_APPS entry added for a gradle build.
func GradleAppEntry(project string) string {
	return "@" + project + ".gradle"
}

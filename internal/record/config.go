package record

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/materialize"
	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

// ConfigFile is the Config Record file name at the workspace root.
const ConfigFile = "config.py"

// Markers located in the Config Record.
const (
	projectMarker = `"project": "`
	gradleMarker  = "GRADLE = ["
	gradleObject  = `"gradle": {`
	versionMarker = `"version": `
)

// SupportedGradle is the range of gradle format versions this tool reads.
const SupportedGradle = ">= 1.0, < 2.0"

// Project is the root project recorded in the APP section.
type Project struct {
	Name    string
	Path    string
	Secrets Secrets
}

// GradleBlock is one entry of the GRADLE list.
type GradleBlock struct {
	Project string
	Path    string
	DevKey  int64
}

// ConfigPath returns the Config Record path inside workdir.
func ConfigPath(workdir string) string {
	return filepath.Join(workdir, ConfigFile)
}

// WriteConfig replaces the Config Record with a fresh APP section for p and an
// empty GRADLE list. Any previous record, including its gradle blocks, is lost.
func WriteConfig(m *materialize.Materializer, workdir string, p Project) error {
	data := scaffold.NewData(p.Name, p.Path)
	data.SecretKey = p.Secrets.Key
	data.Checksum = p.Secrets.Checksum

	content, err := scaffold.Render(scaffold.ConfigRecord, data)
	if err != nil {
		return err
	}

	path := ConfigPath(workdir)
	if _, err := m.Remove(path); err != nil {
		return err
	}
	return m.WriteFile(path, content)
}

// AppendGradleBlock inserts b as the first element of the GRADLE list and
// returns the rendered block. The rest of the file is kept verbatim.
func AppendGradleBlock(m *materialize.Materializer, workdir string, b GradleBlock) (string, error) {
	content, err := ReadConfig(m.FileSystem(), workdir)
	if err != nil {
		return "", err
	}

	updated, block, err := InsertGradleBlock(content, b)
	if err != nil {
		return "", err
	}
	if err := m.WriteFile(ConfigPath(workdir), updated); err != nil {
		return "", err
	}
	return block, nil
}

// InsertGradleBlock returns content with b spliced in directly after the
// GRADLE list opener, together with the rendered block.
func InsertGradleBlock(content string, b GradleBlock) (string, string, error) {
	i := strings.Index(content, gradleMarker)
	if i == -1 {
		return "", "", &MarkerError{File: ConfigFile, Marker: gradleMarker}
	}
	i += len(gradleMarker)

	data := scaffold.NewData(b.Project, b.Path)
	data.DevKey = b.DevKey
	block, err := scaffold.Render(scaffold.GradleBlock, data)
	if err != nil {
		return "", "", err
	}
	if strings.HasPrefix(content[i:], "\n") {
		i++
		return content[:i] + block + content[i:], block, nil
	}
	return content[:i] + "\n" + block + content[i:], block, nil
}

// ReadConfig returns the Config Record text.
func ReadConfig(fsys afero.Fs, workdir string) (string, error) {
	data, err := afero.ReadFile(fsys, ConfigPath(workdir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrConfigNotFound
		}
		return "", fmt.Errorf("reading %s: %w", ConfigFile, err)
	}
	return string(data), nil
}

// ReadProjectName returns the root project name from the Config Record.
func ReadProjectName(fsys afero.Fs, workdir string) (string, error) {
	content, err := ReadConfig(fsys, workdir)
	if err != nil {
		return "", err
	}
	return ProjectName(content)
}

// ProjectName extracts the first project name from Config Record text.
func ProjectName(content string) (string, error) {
	name, err := valueAfter(content, ConfigFile, projectMarker, `"`)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", &ParseError{File: ConfigFile, Marker: projectMarker, Reason: "is empty"}
	}
	return name, nil
}

// ReadGradleProjectName returns the project of the most recent gradle block.
func ReadGradleProjectName(fsys afero.Fs, workdir string) (string, error) {
	content, err := ReadConfig(fsys, workdir)
	if err != nil {
		return "", err
	}
	return GradleProjectName(content)
}

// GradleProjectName extracts the newest gradle project from Config Record text.
func GradleProjectName(content string) (string, error) {
	body, err := listBody(content, ConfigFile, gradleMarker)
	if err != nil {
		return "", err
	}
	name, err := valueAfter(body, ConfigFile+" GRADLE list", projectMarker, `"`)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", &ParseError{File: ConfigFile, Marker: projectMarker, Reason: "is empty"}
	}
	return name, nil
}

// ReadGradleProjects returns every gradle project name, newest first.
func ReadGradleProjects(fsys afero.Fs, workdir string) ([]string, error) {
	content, err := ReadConfig(fsys, workdir)
	if err != nil {
		return nil, err
	}
	return GradleProjects(content)
}

// GradleProjects extracts every gradle project from Config Record text.
func GradleProjects(content string) ([]string, error) {
	body, err := listBody(content, ConfigFile, gradleMarker)
	if err != nil {
		return nil, err
	}
	return allValuesAfter(body, ConfigFile+" GRADLE list", projectMarker, `"`)
}

// ReadGradleVersion returns the gradle format version of the APP section and
// fails with ErrUnsupportedVersion outside SupportedGradle.
func ReadGradleVersion(fsys afero.Fs, workdir string) (*semver.Version, error) {
	content, err := ReadConfig(fsys, workdir)
	if err != nil {
		return nil, err
	}
	return GradleVersion(content)
}

// GradleVersion extracts and checks the APP gradle version from Config
// Record text.
func GradleVersion(content string) (*semver.Version, error) {
	i := strings.Index(content, gradleObject)
	if i == -1 {
		return nil, &MarkerError{File: ConfigFile, Marker: gradleObject}
	}
	raw, err := valueAfter(content[i:], ConfigFile, versionMarker, ",")
	if err != nil {
		return nil, err
	}

	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, &ParseError{File: ConfigFile, Marker: versionMarker, Reason: fmt.Sprintf("is not a version: %v", err)}
	}
	c, err := semver.NewConstraint(SupportedGradle)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, v, SupportedGradle)
	}
	return v, nil
}

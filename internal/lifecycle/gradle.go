package lifecycle

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/materialize"
	"github.com/emonic-labs/emonic-admin/internal/record"
)

// GradleBuild copies the newest gradle project to build/ and the root
// project to build/root/. An existing non-empty build/ is a conflict.
func (w *Workspace) GradleBuild() error {
	return opErr(OpGradleBuild, w.gradleBuild())
}

func (w *Workspace) gradleBuild() error {
	config, err := record.ReadConfig(w.Fs, w.Dir)
	if err != nil {
		return err
	}
	gradle, err := record.GradleProjectName(config)
	if err != nil {
		return fmt.Errorf("reading gradle project name: %w", err)
	}
	root, err := record.ProjectName(config)
	if err != nil {
		return fmt.Errorf("reading project name: %w", err)
	}
	for _, name := range []string{gradle, root} {
		if err := checkRecorded(record.ConfigFile, name); err != nil {
			return err
		}
	}

	gradleDir := w.ProjectDir(gradle)
	rootDir := w.ProjectDir(root)
	for _, d := range []string{gradleDir, rootDir} {
		ok, err := afero.DirExists(w.Fs, d)
		if err != nil {
			return fmt.Errorf("checking %s: %w", d, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrProjectMissing, d)
		}
	}

	m := w.materializer()
	buildDir := filepath.Join(w.Dir, BuildDir)
	if _, err := m.CopyTree(gradleDir, buildDir, materialize.CopyOptions{Exclude: w.Exclude}); err != nil {
		return err
	}
	rootCopy := filepath.Join(buildDir, "root")
	if _, err := m.CopyTree(rootDir, rootCopy, materialize.CopyOptions{Merge: true, Exclude: w.Exclude}); err != nil {
		return err
	}
	w.logger().Info("gradle build copied", "gradle", gradle, "root", root, "dest", buildDir)

	fmt.Fprintln(w.out(), "Gradle build completed and copied to the build directory.")
	return nil
}

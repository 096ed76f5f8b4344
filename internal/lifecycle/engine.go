package lifecycle

import (
	"fmt"
	"path/filepath"

	"github.com/emonic-labs/emonic-admin/internal/record"
)

// Static asset subdirectories created by ManageEngine.
var staticSubdirs = []string{"css", "js"}

// ManageEngine creates the static and template directories declared in
// the settings of the newest gradle project. Existing files are kept.
func (w *Workspace) ManageEngine() error {
	return opErr(OpManageEngine, w.manageEngine())
}

func (w *Workspace) manageEngine() error {
	name, err := record.ReadGradleProjectName(w.Fs, w.Dir)
	if err != nil {
		return fmt.Errorf("reading gradle project name: %w", err)
	}
	if err := checkRecorded(record.ConfigFile, name); err != nil {
		return err
	}
	dir := w.ProjectDir(name)

	dirs, err := record.ReadStaticDirs(w.Fs, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if dirs.StaticFolder == "" || len(dirs.TemplateDirs) == 0 {
		return fmt.Errorf("%w for %s", ErrEngineDirsMissing, name)
	}
	for _, d := range append([]string{dirs.StaticFolder}, dirs.TemplateDirs...) {
		if !filepath.IsLocal(d) {
			return fmt.Errorf("%w: %q in %s", ErrUnsafePath, d, record.SettingsFile)
		}
	}

	m := w.materializer()
	static := filepath.Join(dir, dirs.StaticFolder)
	if _, err := m.EnsureDir(static); err != nil {
		return err
	}
	for _, sub := range staticSubdirs {
		if _, err := m.EnsureDir(filepath.Join(static, sub)); err != nil {
			return err
		}
	}
	for _, td := range dirs.TemplateDirs {
		tdir := filepath.Join(dir, td)
		if _, err := m.EnsureDir(tdir); err != nil {
			return err
		}
		if _, err := m.EnsureFile(filepath.Join(tdir, "index.html"), ""); err != nil {
			return err
		}
	}

	fmt.Fprintf(w.out(), "Emonic template and static engine setup for %s is completed.\n", name)
	return nil
}

package lifecycle

import (
	"fmt"
	"path/filepath"

	"github.com/emonic-labs/emonic-admin/internal/record"
	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

// Create scaffolds project name and resets the Config Record to it with
// fresh secrets. Running it again rewrites the same files; the previous
// Config Record, including its gradle blocks, is discarded.
func (w *Workspace) Create(name string) error {
	if err := ValidateName(name); err != nil {
		return opErr(OpCreate, err)
	}
	return opErr(OpCreate, w.create(name))
}

func (w *Workspace) create(name string) error {
	m := w.materializer()
	dir := w.ProjectDir(name)
	data := scaffold.NewData(name, dir)

	settings, err := scaffold.Render(scaffold.AppSettings, data)
	if err != nil {
		return err
	}
	urls, err := scaffold.Render(scaffold.URLs, data)
	if err != nil {
		return err
	}
	secrets, err := record.NewSecrets(w.rand())
	if err != nil {
		return err
	}
	data.SecretKey = secrets.Key
	data.Checksum = secrets.Checksum

	if _, err := m.EnsureDir(dir); err != nil {
		return err
	}
	for _, f := range []string{"__init__.py", "gradle.py"} {
		if _, err := m.EnsureFile(filepath.Join(dir, f), ""); err != nil {
			return err
		}
	}
	if err := m.WriteFile(record.SettingsPath(dir), settings); err != nil {
		return err
	}
	if err := m.WriteFile(filepath.Join(dir, "urls.py"), urls); err != nil {
		return err
	}
	if err := record.WriteConfig(m, w.Dir, record.Project{Name: name, Path: dir, Secrets: secrets}); err != nil {
		return err
	}
	w.logger().Info("project created", "project", name, "path", dir)

	banner, err := scaffold.Render(scaffold.CreateBanner, data)
	if err != nil {
		return err
	}
	fmt.Fprint(w.out(), banner)
	return nil
}

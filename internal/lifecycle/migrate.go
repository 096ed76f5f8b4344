package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/emonic-labs/emonic-admin/internal/record"
	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

// SetupMigrate writes the Gradle migration files of the root project named
// in the Config Record.
func (w *Workspace) SetupMigrate(ctx context.Context) error {
	return opErr(OpSetupMigrate, w.setupMigrate(ctx))
}

func (w *Workspace) setupMigrate(ctx context.Context) error {
	name, err := record.ReadProjectName(w.Fs, w.Dir)
	if err != nil {
		return fmt.Errorf("reading project name: %w", err)
	}
	if err := checkRecorded(record.ConfigFile, name); err != nil {
		return err
	}

	dir := w.ProjectDir(name)
	data := scaffold.NewData(name, dir)
	migration, err := scaffold.Render(scaffold.Migration, data)
	if err != nil {
		return err
	}
	build, err := scaffold.Render(scaffold.BuildList, data)
	if err != nil {
		return err
	}
	banner, err := scaffold.Render(scaffold.MigrateBanner, data)
	if err != nil {
		return err
	}

	m := w.materializer()
	gradle := record.GradlePath(dir)
	if _, err := m.EnsureDir(gradle); err != nil {
		return err
	}
	if _, err := m.EnsureFile(filepath.Join(gradle, "__init__.py"), ""); err != nil {
		return err
	}
	if err := m.WriteFile(record.MigrationPath(dir), migration); err != nil {
		return err
	}
	fmt.Fprintf(w.out(), "Migration of %s in progress...\n", name)
	if err := m.WriteFile(filepath.Join(gradle, record.BuildFile), build); err != nil {
		return err
	}
	w.logger().Info("migration written", "project", name)

	if err := w.pace(ctx); err != nil {
		return err
	}
	fmt.Fprint(w.out(), banner)
	return nil
}

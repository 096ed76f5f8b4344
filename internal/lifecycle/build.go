package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emonic-labs/emonic-admin/internal/record"
	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

// pathSection opens the PATH cross-reference of a build Settings Record.
const pathSection = "PATH = ["

// Build creates gradle project name from the migrated root project: it adds
// '@<name>.gradle' to the root INSTALLED_APPS, scaffolds <name>/ with build
// settings and prepends a block for it to the GRADLE list.
func (w *Workspace) Build(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return opErr(OpBuild, err)
	}
	return opErr(OpBuild, w.build(ctx, name))
}

// buildPlan is everything Build writes, resolved up front.
type buildPlan struct {
	rootSettingsPath string
	rootSettings     string
	dir              string
	views            string
	settings         string // empty when merged into rootSettings
	config           string
	banner           string
}

func (w *Workspace) build(ctx context.Context, name string) error {
	plan, err := w.planBuild(name)
	if err != nil {
		return err
	}

	m := w.materializer()
	if err := m.WriteFile(plan.rootSettingsPath, plan.rootSettings); err != nil {
		return err
	}
	fmt.Fprintln(w.out(), "Running builder...")
	for _, d := range []string{plan.dir, filepath.Join(plan.dir, "app")} {
		if _, err := m.EnsureDir(d); err != nil {
			return err
		}
	}
	if _, err := m.EnsureFile(filepath.Join(plan.dir, "__init__.py"), ""); err != nil {
		return err
	}
	if err := m.WriteFile(filepath.Join(plan.dir, "views.py"), plan.views); err != nil {
		return err
	}
	if plan.settings != "" {
		if err := m.WriteFile(record.SettingsPath(plan.dir), plan.settings); err != nil {
			return err
		}
	}
	if err := m.WriteFile(record.ConfigPath(w.Dir), plan.config); err != nil {
		return err
	}
	w.logger().Info("gradle project built", "project", name)

	if err := w.pace(ctx); err != nil {
		return err
	}
	fmt.Fprint(w.out(), plan.banner)
	return nil
}

func (w *Workspace) planBuild(name string) (*buildPlan, error) {
	config, err := record.ReadConfig(w.Fs, w.Dir)
	if err != nil {
		return nil, err
	}
	root, err := record.ProjectName(config)
	if err != nil {
		return nil, fmt.Errorf("reading project name: %w", err)
	}
	if err := checkRecorded(record.ConfigFile, root); err != nil {
		return nil, err
	}
	rootDir := w.ProjectDir(root)

	migration, err := record.ReadMigration(w.Fs, rootDir)
	if err != nil {
		return nil, err
	}
	if err := record.CheckMigration(migration, root); err != nil {
		return nil, err
	}
	if _, err := record.GradleVersion(config); err != nil {
		return nil, err
	}

	rootSettings, err := record.ReadSettings(w.Fs, rootDir)
	if err != nil {
		return nil, err
	}
	rootSettings, _, err = record.AddInstalledApp(rootSettings, record.GradleAppEntry(name))
	if err != nil {
		return nil, err
	}

	devKey, err := record.NewDevKey(w.rand())
	if err != nil {
		return nil, err
	}
	dir := w.ProjectDir(name)
	config, block, err := record.InsertGradleBlock(config, record.GradleBlock{Project: name, Path: dir, DevKey: devKey})
	if err != nil {
		return nil, err
	}

	data := scaffold.NewData(name, dir)
	data.RootProject = root
	data.RootPath = rootDir
	data.Block = block

	views, err := scaffold.Render(scaffold.Views, data)
	if err != nil {
		return nil, err
	}
	settings, err := scaffold.Render(scaffold.BuildSettings, data)
	if err != nil {
		return nil, err
	}
	banner, err := scaffold.Render(scaffold.BuildBanner, data)
	if err != nil {
		return nil, err
	}

	plan := &buildPlan{
		rootSettingsPath: record.SettingsPath(rootDir),
		rootSettings:     rootSettings,
		dir:              dir,
		views:            views,
		settings:         settings,
		config:           config,
		banner:           banner,
	}

	// Building the root project itself shares one settings.py; the build
	// sections are appended once so INSTALLED_APPS survives.
	if dir == rootDir {
		if !strings.Contains(rootSettings, pathSection) {
			plan.rootSettings = rootSettings + "\n" + settings
		}
		plan.settings = ""
	}
	return plan, nil
}

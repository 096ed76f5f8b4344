package lifecycle

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/record"
)

// Check is one line of the workspace health report.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Status inspects the workspace in lifecycle order: Config Record, root
// project, migration, gradle builds, engine directories and build output.
// It never modifies the workspace.
func (w *Workspace) Status() []Check {
	var checks []Check
	add := func(name string, ok bool, format string, args ...any) {
		checks = append(checks, Check{Name: name, OK: ok, Detail: fmt.Sprintf(format, args...)})
	}

	config, err := record.ReadConfig(w.Fs, w.Dir)
	if err != nil {
		add(record.ConfigFile, false, "%v (run createproject)", err)
		return checks
	}
	root, err := record.ProjectName(config)
	if err == nil {
		err = checkRecorded(record.ConfigFile, root)
	}
	if err != nil {
		add(record.ConfigFile, false, "%v", err)
		return checks
	}
	add(record.ConfigFile, true, "root project %s", root)

	if v, err := record.GradleVersion(config); err != nil {
		add("gradle version", false, "%v", err)
	} else {
		add("gradle version", true, "%s", v)
	}

	rootDir := w.ProjectDir(root)
	if ok, _ := afero.DirExists(w.Fs, rootDir); !ok {
		add("project "+root, false, "%s is missing", rootDir)
		return checks
	}
	add("project "+root, true, "%s", rootDir)

	migration, err := record.ReadMigration(w.Fs, rootDir)
	if err == nil {
		err = record.CheckMigration(migration, root)
	}
	if err != nil {
		add("migration", false, "%v (run setup --migrate)", err)
	} else {
		add("migration", true, "%s", record.MigrationPath(rootDir))
	}

	builds, err := record.GradleProjects(config)
	switch {
	case err != nil:
		add("gradle builds", false, "%v", err)
	case len(builds) == 0:
		add("gradle builds", false, "none (run build -p <name>)")
	default:
		add("gradle builds", true, "%v", builds)
		w.engineStatus(builds[0], add)
	}

	if ok, _ := afero.DirExists(w.Fs, filepath.Join(w.Dir, BuildDir)); ok {
		add("production build", true, "%s", filepath.Join(w.Dir, BuildDir))
	} else {
		add("production build", false, "not built (run gradle --production)")
	}
	return checks
}

func (w *Workspace) engineStatus(project string, add func(string, bool, string, ...any)) {
	if err := checkRecorded(record.ConfigFile, project); err != nil {
		add("engine "+project, false, "%v", err)
		return
	}
	dir := w.ProjectDir(project)
	dirs, err := record.ReadStaticDirs(w.Fs, dir)
	if err != nil {
		add("engine "+project, false, "%v", err)
		return
	}

	missing := []string{}
	for _, d := range append([]string{dirs.StaticFolder}, dirs.TemplateDirs...) {
		if d == "" {
			continue
		}
		if ok, _ := afero.DirExists(w.Fs, filepath.Join(dir, d)); !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		add("engine "+project, false, "missing %v (run manage engine)", missing)
		return
	}
	add("engine "+project, true, "static %s, templates %v", dirs.StaticFolder, dirs.TemplateDirs)
}

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/branding"
	"github.com/emonic-labs/emonic-admin/internal/manifest"
	"github.com/emonic-labs/emonic-admin/internal/projectlog"
	"github.com/emonic-labs/emonic-admin/internal/record"
	"github.com/emonic-labs/emonic-admin/internal/runtime"
	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

// Files created by the legacy manage engine command.
const (
	viewsDir   = "views"
	staticDir  = "static"
	scriptFile = "script.js"
	styleFile  = "style.css"
)

// StartProject scaffolds a framework project with app.py and modules.json
// and records it in log.
func (w *Workspace) StartProject(name string, log *projectlog.Log) error {
	if err := ValidateName(name); err != nil {
		return opErr(OpStartProject, err)
	}
	return opErr(OpStartProject, w.startProject(name, log))
}

func (w *Workspace) startProject(name string, log *projectlog.Log) error {
	dir := w.ProjectDir(name)
	data := scaffold.NewData(name, dir)

	files := make(map[string]string, 3)
	for _, tmpl := range []string{scaffold.Settings, scaffold.AppEntry, scaffold.Modules} {
		content, err := scaffold.Render(tmpl, data)
		if err != nil {
			return err
		}
		files[tmpl] = content
	}

	m := w.materializer()
	if _, err := m.EnsureDir(dir); err != nil {
		return err
	}
	for _, f := range []string{record.SettingsFile, runtime.EntryPoint, manifest.FileName} {
		if err := m.WriteFile(filepath.Join(dir, f), files[f]); err != nil {
			return err
		}
	}
	if err := log.Append(name); err != nil {
		return err
	}
	w.logger().Info("legacy project created", "project", name)

	fmt.Fprintf(w.out(), "Project '%s' created.\n", name)
	fmt.Fprintf(w.out(), "run ^ `%s runserver %s` # Start your project\n", branding.LegacyCLIName(), name)
	return nil
}

// ManageRecentEngine sets up views/ and static/ for the most recently
// started project and adds the engine modules to its modules.json.
func (w *Workspace) ManageRecentEngine(log *projectlog.Log) error {
	return opErr(OpManageEngine, w.manageRecentEngine(log))
}

func (w *Workspace) manageRecentEngine(log *projectlog.Log) error {
	name, err := log.Latest()
	if errors.Is(err, projectlog.ErrEmpty) {
		return ErrNoProjects
	}
	if err != nil {
		return err
	}
	if err := checkRecorded(projectlog.FileName, name); err != nil {
		return err
	}

	dir := w.ProjectDir(name)
	modulesPath := filepath.Join(dir, manifest.FileName)
	doc, err := manifest.Load(w.Fs, modulesPath)
	if err != nil {
		return err
	}
	index, err := scaffold.Render(scaffold.IndexPage, scaffold.NewData(name, dir))
	if err != nil {
		return err
	}

	added, err := doc.Extend(manifest.EngineModules...)
	if err != nil {
		return err
	}
	var encoded []byte
	if len(added) > 0 {
		if encoded, err = manifest.Encode(doc); err != nil {
			return err
		}
		result, err := manifest.Validate(encoded)
		if err != nil {
			return err
		}
		if !result.Valid {
			return &manifest.InvalidError{Path: modulesPath, Issues: result.Issues}
		}
	}

	m := w.materializer()
	views := filepath.Join(dir, viewsDir)
	static := filepath.Join(dir, staticDir)
	for _, d := range []string{views, static} {
		if _, err := m.EnsureDir(d); err != nil {
			return err
		}
	}
	for _, f := range []struct{ path, content string }{
		{filepath.Join(views, "index.html"), index},
		{filepath.Join(static, scriptFile), ""},
		{filepath.Join(static, styleFile), ""},
	} {
		if _, err := m.EnsureFile(f.path, f.content); err != nil {
			return err
		}
	}

	if encoded == nil {
		fmt.Fprintf(w.out(), "  [SKIP] %s already lists %v\n", modulesPath, manifest.EngineModules)
		return nil
	}
	if err := m.WriteFile(modulesPath, string(encoded)); err != nil {
		return err
	}
	w.logger().Info("modules added", "project", name, "modules", added)
	fmt.Fprintln(w.out(), "modules.json updated.")
	return nil
}

// RunServer hands project name off to rt. A non-zero exit is returned as
// an *ExitError.
func (w *Workspace) RunServer(ctx context.Context, name string, rt runtime.Runtime) error {
	if err := ValidateName(name); err != nil {
		return opErr(OpRunServer, err)
	}

	dir := w.ProjectDir(name)
	app := filepath.Join(dir, runtime.EntryPoint)
	ok, err := afero.Exists(w.Fs, app)
	if err != nil {
		return opErr(OpRunServer, err)
	}
	if !ok {
		return opErr(OpRunServer, fmt.Errorf("%w in project '%s'", runtime.ErrAppNotFound, name))
	}

	fmt.Fprintf(w.out(), "Running server for project '%s'...\n", name)
	out, err := rt.Run(ctx, dir)
	if err != nil {
		return opErr(OpRunServer, err)
	}
	if out.ExitCode != 0 {
		return opErr(OpRunServer, &ExitError{Code: out.ExitCode})
	}
	return nil
}

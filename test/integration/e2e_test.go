//go:build integration

package integration_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/emonic-labs/emonic-admin/internal/lifecycle"
	"github.com/emonic-labs/emonic-admin/internal/materialize"
	"github.com/emonic-labs/emonic-admin/internal/projectlog"
	"github.com/emonic-labs/emonic-admin/internal/record"
	"github.com/emonic-labs/emonic-admin/internal/runtime"
)

// TestFullFlowShop runs the whole admin lifecycle on disk:
// createproject -> setup --migrate -> build -> manage engine -> gradle --production.
func TestFullFlowShop(t *testing.T) {
	env := setupTestEnv(t)
	w := env.Workspace
	ctx := context.Background()

	if err := w.Create("Shop"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.SetupMigrate(ctx); err != nil {
		t.Fatalf("SetupMigrate: %v", err)
	}
	if err := w.Build(ctx, "Shop"); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := w.ManageEngine(); err != nil {
		t.Fatalf("ManageEngine: %v", err)
	}
	writeFile(t, env.path("Shop", "__pycache__", "settings.cpython-311.pyc"), "bytecode")
	if err := w.GradleBuild(); err != nil {
		t.Fatalf("GradleBuild: %v", err)
	}

	projects, err := record.ReadGradleProjects(w.Fs, w.Dir)
	if err != nil || len(projects) != 1 || projects[0] != "Shop" {
		t.Errorf("ReadGradleProjects() = %v, %v; want [Shop]", projects, err)
	}
	assertFileContains(t, env.path("Shop", "settings.py"), "'@Shop.gradle',")
	assertDirExists(t, env.path("Shop", "static", "css"))
	assertDirExists(t, env.path("Shop", "static", "js"))
	assertFileExists(t, env.path("Shop", "views", "index.html"))
	assertFileExists(t, env.path("build", "settings.py"))
	assertFileExists(t, env.path("build", "root", "Gradle", "migration.py"))
	assertFileNotExists(t, env.path("build", "__pycache__"))
	assertFileNotExists(t, env.path("build", "root", "__pycache__"))

	if err := w.GradleBuild(); !errors.Is(err, materialize.ErrDestinationConflict) {
		t.Errorf("second GradleBuild error = %v, want ErrDestinationConflict", err)
	}
}

// TestFullFlowRecreateResetsGradle checks that createproject discards
// previous gradle blocks.
func TestFullFlowRecreateResetsGradle(t *testing.T) {
	env := setupTestEnv(t)
	w := env.Workspace
	ctx := context.Background()

	for _, step := range []func() error{
		func() error { return w.Create("Shop") },
		func() error { return w.SetupMigrate(ctx) },
		func() error { return w.Build(ctx, "Blog") },
		func() error { return w.Create("Shop") },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := record.ReadGradleProjectName(w.Fs, w.Dir); err == nil {
		t.Error("expected no gradle project after createproject")
	}
	assertFileContains(t, env.path("config.py"), "GRADLE = []")
	assertDirExists(t, env.path("Blog"))
}

// TestFullFlowLegacy runs startproject -> manage engine -> runserver with a
// real interpreter when one is installed.
func TestFullFlowLegacy(t *testing.T) {
	env := setupTestEnv(t)
	w := env.Workspace
	log := projectlog.Open(w.Fs, w.Dir)

	if err := w.StartProject("blog", log); err != nil {
		t.Fatalf("StartProject: %v", err)
	}
	if err := w.ManageRecentEngine(log); err != nil {
		t.Fatalf("ManageRecentEngine: %v", err)
	}
	assertFileContains(t, env.path("blog", "modules.json"), `"name": "pubsec"`)
	assertFileExists(t, env.path("blog", "static", "script.js"))

	if _, err := exec.LookPath(runtime.DefaultInterpreter); err != nil {
		t.Skip("python3 not available, skipping runserver")
	}
	// The generated app imports the framework, which is not installed here.
	writeFile(t, env.path("blog", "app.py"), "print('serving blog')\n")

	var out strings.Builder
	rt := &runtime.PythonRuntime{Stdout: &out, Stdin: strings.NewReader("")}
	if err := w.RunServer(context.Background(), "blog", rt); err != nil {
		t.Fatalf("RunServer: %v", err)
	}
	if !strings.Contains(out.String(), "serving blog") {
		t.Errorf("runserver output = %q", out.String())
	}

	writeFile(t, env.path("blog", "app.py"), "raise SystemExit(4)\n")
	var exitErr *lifecycle.ExitError
	if err := w.RunServer(context.Background(), "blog", rt); !errors.As(err, &exitErr) || exitErr.Code != 4 {
		t.Errorf("RunServer error = %v, want exit status 4", err)
	}
}

package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/materialize"
	"github.com/emonic-labs/emonic-admin/internal/record"
)

const testDir = "/work"

func newWorkspace(t *testing.T) (*Workspace, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(testDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &Workspace{Fs: fs, Dir: testDir, Out: &out}, &out
}

// snapshot maps every file under the workspace to its content.
func snapshot(t *testing.T, fs afero.Fs) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := afero.Walk(fs, testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			files[path+"/"] = ""
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		files[path] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking workspace: %v", err)
	}
	return files
}

func assertUnchanged(t *testing.T, before, after map[string]string) {
	t.Helper()
	if len(before) != len(after) {
		t.Errorf("workspace changed: %d entries before, %d after", len(before), len(after))
	}
	for path, content := range before {
		got, ok := after[path]
		if !ok {
			t.Errorf("%s was removed", path)
			continue
		}
		if got != content {
			t.Errorf("%s was modified", path)
		}
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if ok, _ := afero.Exists(fs, p); !ok {
			t.Errorf("expected %s to exist", p)
		}
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, s)
	}
}

func mustRun(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"Shop", "my_site", "v1.2-beta", "_x"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"", ".", "..", "a/b", "../Shop", "-flag", "has space"} {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCreate(t *testing.T) {
	w, out := newWorkspace(t)
	mustRun(t, w.Create("Shop"))

	assertExists(t, w.Fs,
		"/work/Shop/__init__.py",
		"/work/Shop/gradle.py",
		"/work/Shop/settings.py",
		"/work/Shop/urls.py",
		"/work/config.py",
	)
	assertContains(t, readFile(t, w.Fs, "/work/Shop/settings.py"), "'Shop.admin',")
	assertContains(t, readFile(t, w.Fs, "/work/Shop/urls.py"), "from Shop.urls import path")

	name, err := record.ReadProjectName(w.Fs, testDir)
	if err != nil || name != "Shop" {
		t.Errorf("ReadProjectName() = %q, %v; want Shop", name, err)
	}

	s := out.String()
	assertContains(t, s, "Project Shop initialized.")
	assertContains(t, s, "run ^ `emonic-admin setup --migrate`")
	assertContains(t, s, ">> emonic-admin 1.0.1")
}

func TestCreateIdempotent(t *testing.T) {
	w, _ := newWorkspace(t)
	mustRun(t, w.Create("Shop"))
	first := snapshot(t, w.Fs)

	mustRun(t, w.Create("Shop"))
	second := snapshot(t, w.Fs)

	if len(first) != len(second) {
		t.Fatalf("entries: %d after first create, %d after second", len(first), len(second))
	}
	for path, content := range first {
		if path == "/work/config.py" {
			continue // fresh secrets on every create
		}
		if second[path] != content {
			t.Errorf("%s differs after second create", path)
		}
	}
}

func TestCreateInvalidName(t *testing.T) {
	w, _ := newWorkspace(t)
	before := snapshot(t, w.Fs)

	err := w.Create("../escape")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Create() error = %v, want ErrInvalidName", err)
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != OpCreate {
		t.Errorf("expected *OpError with Op %q, got %v", OpCreate, err)
	}
	assertUnchanged(t, before, snapshot(t, w.Fs))
}

func TestSetupMigrateWithoutConfig(t *testing.T) {
	w, _ := newWorkspace(t)
	before := snapshot(t, w.Fs)

	err := w.SetupMigrate(context.Background())
	if !errors.Is(err, record.ErrConfigNotFound) {
		t.Fatalf("SetupMigrate() error = %v, want ErrConfigNotFound", err)
	}
	assertUnchanged(t, before, snapshot(t, w.Fs))
}

func TestSetupMigrate(t *testing.T) {
	w, out := newWorkspace(t)
	mustRun(t, w.Create("Shop"))
	out.Reset()

	mustRun(t, w.SetupMigrate(context.Background()))

	assertExists(t, w.Fs, "/work/Shop/Gradle/__init__.py", "/work/Shop/Gradle/build.py")
	migration := readFile(t, w.Fs, "/work/Shop/Gradle/migration.py")
	if err := record.CheckMigration(migration, "Shop"); err != nil {
		t.Errorf("CheckMigration() = %v", err)
	}
	assertContains(t, readFile(t, w.Fs, "/work/Shop/Gradle/build.py"), `GRADLE_BUILD = ["Shop", "/work/Shop"]`)

	s := out.String()
	assertContains(t, s, "Migration of Shop in progress...")
	assertContains(t, s, "Migration setup for Shop is completed.")
	assertContains(t, s, "run ^ `emonic-admin build -p <gradle_project_name>`")
}

func TestSetupMigrateCancelledPacing(t *testing.T) {
	w, _ := newWorkspace(t)
	mustRun(t, w.Create("Shop"))
	w.Pacing = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.SetupMigrate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("SetupMigrate() error = %v, want context.Canceled", err)
	}
}

func TestBuildWithoutMigrationCreatesNothing(t *testing.T) {
	w, _ := newWorkspace(t)
	mustRun(t, w.Create("Shop"))
	before := snapshot(t, w.Fs)

	err := w.Build(context.Background(), "Blog")
	if !errors.Is(err, ErrMigrationMissing) {
		t.Fatalf("Build() error = %v, want ErrMigrationMissing", err)
	}
	assertUnchanged(t, before, snapshot(t, w.Fs))
}

func TestBuildInvalidMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no builder", "MIGRATIONS = []\n", record.ErrBuilderMissing},
		{"other project", `BUILDER = [{"init": "main:Other:gradle", "migration": "gradle.migrate"}]`, record.ErrInvalidMigration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newWorkspace(t)
			mustRun(t, w.Create("Shop"))
			mustRun(t, w.SetupMigrate(context.Background()))
			if err := afero.WriteFile(w.Fs, "/work/Shop/Gradle/migration.py", []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			before := snapshot(t, w.Fs)

			if err := w.Build(context.Background(), "Blog"); !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
			assertUnchanged(t, before, snapshot(t, w.Fs))
		})
	}
}

func TestBuildMissingInstalledApps(t *testing.T) {
	w, _ := newWorkspace(t)
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(context.Background()))
	if err := afero.WriteFile(w.Fs, "/work/Shop/settings.py", []byte("ALLOWED_HOSTS = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, w.Fs)

	err := w.Build(context.Background(), "Blog")
	var me *record.MarkerError
	if !errors.As(err, &me) {
		t.Fatalf("Build() error = %v, want *record.MarkerError", err)
	}
	assertUnchanged(t, before, snapshot(t, w.Fs))
}

func TestShopEndToEnd(t *testing.T) {
	w, out := newWorkspace(t)
	ctx := context.Background()

	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Shop"))

	config := readFile(t, w.Fs, "/work/config.py")
	if n := strings.Count(config, `"prod-key": None`); n != 1 {
		t.Errorf("config.py has %d GRADLE blocks, want 1", n)
	}
	projects, err := record.GradleProjects(config)
	if err != nil || len(projects) != 1 || projects[0] != "Shop" {
		t.Errorf("GradleProjects() = %v, %v; want [Shop]", projects, err)
	}

	settings := readFile(t, w.Fs, "/work/Shop/settings.py")
	assertContains(t, settings, "INSTALLED_APPS = [\n    '@Shop.gradle',")
	assertContains(t, settings, "PATH = [")
	assertContains(t, settings, `STATIC_FOLDER = "static"`)
	assertExists(t, w.Fs, "/work/Shop/app", "/work/Shop/views.py")
	assertContains(t, out.String(), "Builder completed, Gradle project: Shop.")

	mustRun(t, w.ManageEngine())
	assertExists(t, w.Fs, "/work/Shop/static/css", "/work/Shop/static/js", "/work/Shop/views/index.html")
	assertContains(t, out.String(), "Emonic template and static engine setup for Shop is completed.")

	mustRun(t, w.GradleBuild())
	assertExists(t, w.Fs,
		"/work/build/settings.py",
		"/work/build/Gradle/migration.py",
		"/work/build/root/settings.py",
		"/work/build/root/views/index.html",
	)
	assertContains(t, out.String(), "Gradle build completed and copied to the build directory.")

	for _, c := range w.Status() {
		if !c.OK {
			t.Errorf("status %s not OK: %s", c.Name, c.Detail)
		}
	}
}

func TestBuildTwiceIsStable(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Shop"))
	mustRun(t, w.Build(ctx, "Shop"))

	settings := readFile(t, w.Fs, "/work/Shop/settings.py")
	if n := strings.Count(settings, "'@Shop.gradle'"); n != 1 {
		t.Errorf("settings.py lists @Shop.gradle %d times, want 1", n)
	}
	if n := strings.Count(settings, "PATH = ["); n != 1 {
		t.Errorf("settings.py has %d PATH sections, want 1", n)
	}
}

func TestBuildSeparateProject(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Blog"))
	mustRun(t, w.Build(ctx, "Cart"))

	blog := readFile(t, w.Fs, "/work/Blog/settings.py")
	assertContains(t, blog, `"name": "Blog"`)
	assertContains(t, blog, `"path": "/work/Shop"`)
	if strings.Contains(blog, "INSTALLED_APPS") {
		t.Error("build settings should not carry INSTALLED_APPS")
	}

	root := readFile(t, w.Fs, "/work/Shop/settings.py")
	assertContains(t, root, "INSTALLED_APPS = [\n    '@Cart.gradle',\n    '@Blog.gradle',")
	if strings.Contains(root, "PATH = [") {
		t.Error("root settings should not carry build sections")
	}

	projects, err := record.ReadGradleProjects(w.Fs, testDir)
	if err != nil || strings.Join(projects, ",") != "Cart,Blog" {
		t.Errorf("ReadGradleProjects() = %v, %v; want [Cart Blog]", projects, err)
	}

	mustRun(t, w.ManageEngine())
	assertExists(t, w.Fs, "/work/Cart/static/css", "/work/Cart/views/index.html")
	if ok, _ := afero.Exists(w.Fs, "/work/Blog/static"); ok {
		t.Error("manage engine should only target the newest build")
	}
}

func TestManageEngineOnceOnly(t *testing.T) {
	w, out := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Shop"))
	mustRun(t, w.ManageEngine())

	index := "/work/Shop/views/index.html"
	if err := afero.WriteFile(w.Fs, index, []byte("<h1>custom</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	mustRun(t, w.ManageEngine())
	if got := readFile(t, w.Fs, index); got != "<h1>custom</h1>" {
		t.Errorf("index.html overwritten: %q", got)
	}
	assertContains(t, out.String(), "[SKIP] /work/Shop/static already exists")
	if strings.Contains(out.String(), "[ OK ]") {
		t.Errorf("second run created something:\n%s", out.String())
	}
}

func TestManageEngineMissingDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		want     error
	}{
		{"neither", "HOST = 'localhost'\n", record.ErrStaticDirsNotFound},
		{"static only", "STATIC_FOLDER = \"static\"\n", ErrEngineDirsMissing},
		{"escaping path", "STATIC_FOLDER = \"../escape\"\n'DIRS': ['views']\n", ErrUnsafePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newWorkspace(t)
			ctx := context.Background()
			mustRun(t, w.Create("Shop"))
			mustRun(t, w.SetupMigrate(ctx))
			mustRun(t, w.Build(ctx, "Blog"))
			if err := afero.WriteFile(w.Fs, "/work/Blog/settings.py", []byte(tt.settings), 0o644); err != nil {
				t.Fatal(err)
			}
			before := snapshot(t, w.Fs)

			if err := w.ManageEngine(); !errors.Is(err, tt.want) {
				t.Fatalf("ManageEngine() error = %v, want %v", err, tt.want)
			}
			assertUnchanged(t, before, snapshot(t, w.Fs))
		})
	}
}

func TestManageEngineWithoutBuild(t *testing.T) {
	w, _ := newWorkspace(t)
	mustRun(t, w.Create("Shop"))

	err := w.ManageEngine()
	var me *record.MarkerError
	if !errors.As(err, &me) {
		t.Errorf("ManageEngine() error = %v, want *record.MarkerError", err)
	}
}

func TestGradleBuildConflict(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Shop"))
	if err := afero.WriteFile(w.Fs, "/work/build/old.txt", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := w.GradleBuild(); !errors.Is(err, materialize.ErrDestinationConflict) {
		t.Fatalf("GradleBuild() error = %v, want ErrDestinationConflict", err)
	}
	if ok, _ := afero.Exists(w.Fs, "/work/build/settings.py"); ok {
		t.Error("conflicting build should not copy anything")
	}
}

func TestGradleBuildMissingProject(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Blog"))
	if err := w.Fs.RemoveAll("/work/Blog"); err != nil {
		t.Fatal(err)
	}

	if err := w.GradleBuild(); !errors.Is(err, ErrProjectMissing) {
		t.Errorf("GradleBuild() error = %v, want ErrProjectMissing", err)
	}
}

func TestGradleBuildExcludes(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Exclude = []string{"**/*.pyc", "**/__pycache__"}
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Blog"))
	for _, p := range []string{"/work/Blog/app/cache.pyc", "/work/Shop/__pycache__/x.pyc"} {
		if err := afero.WriteFile(w.Fs, p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mustRun(t, w.GradleBuild())
	assertExists(t, w.Fs, "/work/build/views.py", "/work/build/root/Gradle/migration.py")
	for _, p := range []string{"/work/build/app/cache.pyc", "/work/build/root/__pycache__"} {
		if ok, _ := afero.Exists(w.Fs, p); ok {
			t.Errorf("%s should be excluded", p)
		}
	}
}

func TestStatusFreshWorkspace(t *testing.T) {
	w, _ := newWorkspace(t)
	checks := w.Status()
	if len(checks) != 1 || checks[0].OK || checks[0].Name != record.ConfigFile {
		t.Errorf("Status() = %+v, want a single failing config.py check", checks)
	}

	mustRun(t, w.Create("Shop"))
	byName := map[string]Check{}
	for _, c := range w.Status() {
		byName[c.Name] = c
	}
	if !byName[record.ConfigFile].OK || !byName["project Shop"].OK {
		t.Errorf("expected config and project checks to pass: %+v", byName)
	}
	if byName["migration"].OK || byName["gradle builds"].OK {
		t.Errorf("expected migration and builds to be missing: %+v", byName)
	}
	if got := byName["gradle version"].Detail; got != "1.1.0" {
		t.Errorf("gradle version detail = %q, want 1.1.0", got)
	}
}

func TestRecordedNamesMustStayInWorkspace(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	mustRun(t, w.Create("Shop"))
	mustRun(t, w.SetupMigrate(ctx))
	mustRun(t, w.Build(ctx, "Blog"))

	config := readFile(t, w.Fs, "/work/config.py")
	edit := func(t *testing.T, old, new string) {
		t.Helper()
		if err := afero.WriteFile(w.Fs, "/work/config.py", []byte(strings.ReplaceAll(config, old, new)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("root project", func(t *testing.T) {
		edit(t, `"project": "Shop"`, `"project": "../x"`)
		before := snapshot(t, w.Fs)

		for name, err := range map[string]error{
			"SetupMigrate": w.SetupMigrate(ctx),
			"Build":        w.Build(ctx, "Blog"),
			"GradleBuild":  w.GradleBuild(),
		} {
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("%s() error = %v, want ErrInvalidName", name, err)
			}
		}
		assertUnchanged(t, before, snapshot(t, w.Fs))
		if ok, _ := afero.Exists(w.Fs, "/x"); ok {
			t.Error("wrote outside the workspace")
		}
	})

	t.Run("gradle project", func(t *testing.T) {
		edit(t, `"project": "Blog"`, `"project": "../x"`)
		before := snapshot(t, w.Fs)

		if err := w.ManageEngine(); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ManageEngine() error = %v, want ErrInvalidName", err)
		}
		if err := w.GradleBuild(); !errors.Is(err, ErrInvalidName) {
			t.Errorf("GradleBuild() error = %v, want ErrInvalidName", err)
		}
		assertUnchanged(t, before, snapshot(t, w.Fs))
	})
}

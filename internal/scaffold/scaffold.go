package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/emonic-labs/emonic-admin/internal/branding"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names, without the .tmpl suffix.
const (
	ConfigRecord  = "config.py"
	GradleBlock   = "gradle_block"
	AppSettings   = "settings_app.py"
	URLs          = "urls.py"
	Migration     = "migration.py"
	BuildList     = "build.py"
	Views         = "views.py"
	Settings      = "settings.py"
	BuildSettings = "settings_build.py"
	AppEntry      = "app.py"
	IndexPage     = "index.html"
	Modules       = "modules.json"
	CreateBanner  = "create_banner"
	MigrateBanner = "migrate_banner"
	BuildBanner   = "build_banner"
)

const (
	defaultVersion  = "1.1"
	defaultHTTPPort = 8000
)

// DefaultModules are the framework modules listed in a fresh modules.json.
var DefaultModules = []string{
	"emonic", "mailer", "JwT", "blueprint", "chiper", "session", "limiter", "BaseModals",
}

// Data holds all template variables available to the templates.
type Data struct {
	Project       string // project being scaffolded, e.g. "Shop"
	Path          string // absolute directory of Project
	RootProject   string // project recorded in the Config Record APP section
	RootPath      string // absolute directory of RootProject
	SecretKey     string
	Checksum      string
	GradleVersion string // format version written into gradle blocks
	Port          int
	DevKey        int64  // random dev key of a gradle block
	Block         string // rendered gradle block, for the build banner
	Modules       []string
}

// NewData creates a Data for project with defaults populated.
func NewData(project, path string) *Data {
	return &Data{
		Project:       project,
		Path:          path,
		GradleVersion: defaultVersion,
		Port:          defaultHTTPPort,
		Modules:       DefaultModules,
	}
}

var (
	parsed    *template.Template
	parseOnce sync.Once
	parseErr  error
)

func templates() (*template.Template, error) {
	parseOnce.Do(func() {
		funcs := template.FuncMap{
			"cli":        branding.CLIName,
			"trailer":    branding.Trailer,
			"connectURL": branding.ConnectURL,
			"moduleURL":  branding.ModuleURL,
		}
		parsed, parseErr = template.New("scaffold").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})
	return parsed, parseErr
}

// Render executes the named template with data.
func Render(name string, data *Data) (string, error) {
	tmpl, err := templates()
	if err != nil {
		return "", err
	}

	t := tmpl.Lookup(name + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Names lists the available templates, sorted.
func Names() ([]string, error) {
	tmpl, err := templates()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, t := range tmpl.Templates() {
		if n, ok := strings.CutSuffix(t.Name(), ".tmpl"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

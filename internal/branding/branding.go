// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded into the binary; every name the tool prints
// (command names, the ">> emonic-admin 1.0.1" trailer, env prefix, the
// module URL base written into generated files) comes from here.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	LegacyCLIName string `yaml:"legacy_cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	Version       string `yaml:"version"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GoModule      string `yaml:"go_module"`
	GitHubRepo    string `yaml:"github_repo"`
	ModuleBaseURL string `yaml:"module_base_url"`
	ConnectURL    string `yaml:"connect_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:       "emonic-admin",
			LegacyCLIName: "emonic",
			DisplayName:   "Emonic Admin",
			Description:   "A battery startup for the Emonic web framework",
			Version:       "1.0.1",
			HomeDir:       ".emonic",
			EnvPrefix:     "EMONIC",
			GoModule:      "github.com/emonic-labs/emonic-admin",
			GitHubRepo:    "embracke/emonicadmin",
			ModuleBaseURL: "http://emonic.vvfin.in/jit/23116933/modules",
			ConnectURL:    "http://emonic.vvfin.in/connect/migration",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "emonic-admin").
func CLIName() string { load(); return defaults.CLIName }

// LegacyCLIName returns the name of the startproject/runserver CLI.
func LegacyCLIName() string { load(); return defaults.LegacyCLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// Version returns the tool version printed in completion banners.
func Version() string { load(); return defaults.Version }

// HomeDir returns the dot-directory name under $HOME (e.g., ".emonic").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "EMONIC").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ModuleURL returns the inert download URL written for a framework module.
func ModuleURL(name string) string {
	load()
	return defaults.ModuleBaseURL + "/" + name + "?pypi=True&connected=True"
}

// ConnectURL returns the migration connect endpoint written into migration.py.
func ConnectURL() string { load(); return defaults.ConnectURL }

// Trailer returns the closing line of every completion banner.
func Trailer() string {
	load()
	return ">> " + defaults.CLIName + " " + defaults.Version
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("PACING") → "EMONIC_PACING".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

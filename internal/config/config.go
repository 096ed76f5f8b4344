package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emonic-labs/emonic-admin/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyPacing       = "pacing"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyPython       = "python"
	KeyBuildExclude = "build.exclude"
	KeyWorkdir      = "workdir"
)

// DefaultBuildExclude lists the patterns skipped by the production build copy.
var DefaultBuildExclude = []string{
	"**/__pycache__",
	"**/*.pyc",
	"**/.git",
	"**/.DS_Store",
}

// Dir returns the path to the config directory (~/.emonic/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.emonic/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper defaults and reads the config file and environment.
func Load() {
	viper.SetDefault(KeyPacing, "0s")
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyPython, "python3")
	viper.SetDefault(KeyBuildExclude, DefaultBuildExclude)

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Pacing returns the pause inserted between status messages of the
// migrate and build commands. Invalid values disable pacing.
func Pacing() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyPacing))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// BuildExclude returns the doublestar patterns skipped by the build copy.
func BuildExclude() []string {
	patterns := viper.GetStringSlice(KeyBuildExclude)
	if len(patterns) == 0 {
		return DefaultBuildExclude
	}
	return patterns
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

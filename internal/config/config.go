package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/runautotests/internal/discover"
)

// ConfigFileName is looked up in the working directory, then in the user
// config directory.
const ConfigFileName = ".runautotests.yaml"

// AppConfig represents the contents of .runautotests.yaml.
type AppConfig struct {
	Prefix           string        `yaml:"prefix"`
	ExecutablePrefix string        `yaml:"executable_prefix"`
	Exclude          []string      `yaml:"exclude"`
	Layout           string        `yaml:"layout"`
	Sort             string        `yaml:"sort"`
	Timeout          time.Duration `yaml:"timeout"`
	Color            string        `yaml:"color"`
	Theme            string        `yaml:"theme"`
	Strict           bool          `yaml:"strict"`
	Debug            bool          `yaml:"debug"`
}

// Constants for default values.
const (
	DefaultLayout = "auto"
	DefaultSort   = "none"
	DefaultColor  = "auto"
	DefaultTheme  = "default"
)

// DefaultAppConfig returns the hardcoded defaults.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Prefix:           discover.DefaultPrefix,
		ExecutablePrefix: discover.DefaultExecutablePrefix,
		Exclude:          append([]string(nil), discover.DefaultExclusions...),
		Layout:           DefaultLayout,
		Sort:             DefaultSort,
		Color:            DefaultColor,
		Theme:            DefaultTheme,
	}
}

// LoadConfig reads the config file at path, or the first one found by
// getConfigPath when path is empty. It returns the defaults merged with the
// file, the path that was read ("" when none), and any read or parse
// error. On error the defaults are still returned.
func LoadConfig(path string) (*AppConfig, string, error) {
	appCfg := DefaultAppConfig()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}
	if path == "" {
		return appCfg, "", nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - config file path is controlled
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return appCfg, "", nil
		}
		return appCfg, path, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return appCfg, path, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	mergeFile(appCfg, &fileCfg)
	return appCfg, path, nil
}

// mergeFile copies every value the file sets onto base.
func mergeFile(base, file *AppConfig) {
	if file.Prefix != "" {
		base.Prefix = file.Prefix
	}
	if file.ExecutablePrefix != "" {
		base.ExecutablePrefix = file.ExecutablePrefix
	}
	if file.Exclude != nil {
		base.Exclude = file.Exclude
	}
	if file.Layout != "" {
		base.Layout = file.Layout
	}
	if file.Sort != "" {
		base.Sort = file.Sort
	}
	if file.Timeout != 0 {
		base.Timeout = file.Timeout
	}
	if file.Color != "" {
		base.Color = file.Color
	}
	if file.Theme != "" {
		base.Theme = file.Theme
	}
	base.Strict = file.Strict
	base.Debug = file.Debug
}

// getConfigPath tries to find the config file.
// It checks the local directory first, then the XDG UserConfigDir (if valid).
func getConfigPath() string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable for a per-user file.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "runautotests", ConfigFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sources recorded on ResolvedConfig.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// CliFlags holds the command-line values. The *Set fields record whether a
// flag was given explicitly, so a zero value can still override the file.
type CliFlags struct {
	Color      string
	ColorSet   bool
	Timeout    time.Duration
	TimeoutSet bool
	Strict     bool
	StrictSet  bool
	Debug      bool
	DebugSet   bool

	ConfigPath string
	Transcript string
}

// ResolvedConfig holds the final resolved configuration after applying all priority rules.
type ResolvedConfig struct {
	// Discovery
	Prefix           string
	ExecutablePrefix string
	Exclusions       []string
	Layout           string
	Sort             string

	// Execution
	Timeout time.Duration

	// Presentation
	Color string
	Theme string

	// Behavioral settings
	Strict     bool
	Debug      bool
	Transcript string

	// Resolution metadata (for debugging)
	ConfigFile    string // path that was read, "" when none
	ColorSource   string
	TimeoutSource string
	StrictSource  string
	DebugSource   string
}

// ResolveConfig resolves configuration from all sources with explicit priority order.
//
// Resolution order:
//  1. Load base config from .runautotests.yaml (or defaults)
//  2. Apply CLI flags (highest priority)
//  3. Apply environment variables (if not set by CLI)
func ResolveConfig(cliFlags CliFlags) (*ResolvedConfig, error) {
	appCfg, path, err := LoadConfig(cliFlags.ConfigPath)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Prefix:           appCfg.Prefix,
		ExecutablePrefix: appCfg.ExecutablePrefix,
		Exclusions:       appCfg.Exclude,
		Layout:           appCfg.Layout,
		Sort:             strings.ToLower(appCfg.Sort),
		Timeout:          appCfg.Timeout,
		Color:            strings.ToLower(appCfg.Color),
		Theme:            strings.ToLower(appCfg.Theme),
		Strict:           appCfg.Strict,
		Debug:            appCfg.Debug,
		Transcript:       cliFlags.Transcript,
		ConfigFile:       path,
		ColorSource:      SourceDefault,
		TimeoutSource:    SourceDefault,
		StrictSource:     SourceDefault,
		DebugSource:      SourceDefault,
	}
	if path != "" {
		resolved.ColorSource = SourceFile
		resolved.TimeoutSource = SourceFile
		resolved.StrictSource = SourceFile
		resolved.DebugSource = SourceFile
	}

	// Resolve Color with priority: CLI > ENV > file > default
	if cliFlags.ColorSet {
		resolved.Color = strings.ToLower(cliFlags.Color)
		resolved.ColorSource = SourceCLI
	} else if env := os.Getenv("RUNAUTOTESTS_COLOR"); env != "" {
		resolved.Color = strings.ToLower(env)
		resolved.ColorSource = SourceEnv
	} else if os.Getenv("NO_COLOR") != "" {
		resolved.Color = ColorNever
		resolved.ColorSource = SourceEnv
	}

	// Resolve Timeout with priority: CLI > ENV > file > default
	if cliFlags.TimeoutSet {
		resolved.Timeout = cliFlags.Timeout
		resolved.TimeoutSource = SourceCLI
	} else if env := os.Getenv("RUNAUTOTESTS_TIMEOUT"); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return nil, fmt.Errorf("invalid RUNAUTOTESTS_TIMEOUT %q: %w", env, err)
		}
		resolved.Timeout = d
		resolved.TimeoutSource = SourceEnv
	}

	// Resolve Strict with priority: CLI > file > default
	if cliFlags.StrictSet {
		resolved.Strict = cliFlags.Strict
		resolved.StrictSource = SourceCLI
	}

	// Resolve Debug with priority: CLI > ENV > file > default
	if cliFlags.DebugSet {
		resolved.Debug = cliFlags.Debug
		resolved.DebugSource = SourceCLI
	} else if envDebug := getEnvBool("RUNAUTOTESTS_DEBUG"); envDebug != nil {
		resolved.Debug = *envDebug
		resolved.DebugSource = SourceEnv
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return resolved, nil
}

// NaturalSort reports whether candidates are ordered naturally instead of
// in filesystem order.
func (c *ResolvedConfig) NaturalSort() bool {
	return c.Sort == "natural"
}

// UseColor reports whether output should carry ANSI escapes, given whether
// stdout is a terminal.
func (c *ResolvedConfig) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	validColor := map[string]bool{ColorAuto: true, ColorAlways: true, ColorNever: true}
	if !validColor[cfg.Color] {
		return fmt.Errorf("invalid color value: %s (must be: auto, always, never)", cfg.Color)
	}

	validLayout := map[string]bool{"auto": true, "debug": true, "flat": true}
	if !validLayout[strings.ToLower(cfg.Layout)] {
		return fmt.Errorf("invalid layout value: %s (must be: auto, debug, flat)", cfg.Layout)
	}

	if cfg.Sort != "none" && cfg.Sort != "natural" {
		return fmt.Errorf("invalid sort value: %s (must be: none, natural)", cfg.Sort)
	}

	validTheme := map[string]bool{"default": true, "mono": true}
	if !validTheme[cfg.Theme] {
		return fmt.Errorf("invalid theme value: %s (must be: default, mono)", cfg.Theme)
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got: %s", cfg.Timeout)
	}

	if cfg.Prefix == "" || cfg.ExecutablePrefix == "" {
		return fmt.Errorf("prefix and executable_prefix must not be empty")
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by ApplyEnv
const (
	EnvTarget   = "FIXCHECK_TARGET"
	EnvManifest = "FIXCHECK_MANIFEST"
	EnvLogLevel = "FIXCHECK_LOG_LEVEL"
)

// Config represents fixcheck configuration options
type Config struct {
	// TargetPath is the file to scan. Empty means the manifest's own target.
	TargetPath string `yaml:"target_path"`

	// Manifest is a manifest file path or the built-in manifest name
	Manifest string `yaml:"manifest"`

	// LogLevel sets the diagnostic verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ReportPath, when set, receives a JSON or YAML copy of the result
	ReportPath string `yaml:"report_path"`

	// HistoryPath, when set, is the SQLite database recording past runs
	HistoryPath string `yaml:"history_path"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		TargetPath:  "",
		Manifest:    "",
		LogLevel:    "warn",
		ReportPath:  "",
		HistoryPath: "",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overlay(&fileCfg, configBase(path))

	return cfg, nil
}

// configBase returns the directory relative paths in a config file resolve
// against: the project root for .fixcheck/config.yaml, else the file's dir.
func configBase(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == DirName {
		return filepath.Dir(dir)
	}
	return dir
}

// LoadConfigFromDir loads configuration from .fixcheck/config.yaml in the
// nearest directory at or above dir that has one. Defaults are returned when
// none is found.
func LoadConfigFromDir(dir string) (*Config, error) {
	path, found := FindConfigFile(dir)
	if !found {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// overlay copies non-empty values from other, resolving relative file paths
// against base
func (c *Config) overlay(other *Config, base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) || base == "" {
			return p
		}
		return filepath.Join(base, p)
	}

	if other.TargetPath != "" {
		c.TargetPath = resolve(other.TargetPath)
	}
	if other.Manifest != "" {
		// The built-in manifest is referenced by name, not by path
		if DetectsFile(other.Manifest) {
			c.Manifest = resolve(other.Manifest)
		} else {
			c.Manifest = other.Manifest
		}
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ReportPath != "" {
		c.ReportPath = resolve(other.ReportPath)
	}
	if other.HistoryPath != "" {
		c.HistoryPath = resolve(other.HistoryPath)
	}
}

// DetectsFile reports whether a manifest reference looks like a file path
// rather than a built-in manifest name
func DetectsFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".md", ".markdown", ".yaml", ".yml":
		return true
	}
	return strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/')
}

// ApplyEnv overrides configuration with environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvTarget); ok && v != "" {
		c.TargetPath = v
	}
	if v, ok := lookup(EnvManifest); ok && v != "" {
		c.Manifest = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(target, manifest, logLevel, reportPath, historyPath *string) {
	if target != nil {
		c.TargetPath = *target
	}
	if manifest != nil {
		c.Manifest = *manifest
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if reportPath != nil {
		c.ReportPath = *reportPath
	}
	if historyPath != nil {
		c.HistoryPath = *historyPath
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.ReportPath != "" {
		switch strings.ToLower(filepath.Ext(c.ReportPath)) {
		case ".json", ".yaml", ".yml":
		default:
			return fmt.Errorf("report_path %q must end in .json, .yaml or .yml", c.ReportPath)
		}
	}

	return nil
}

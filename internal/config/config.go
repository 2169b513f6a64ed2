// Package config manages apdiff configuration and the .apdiff workspace directory.
// It handles loading, saving, and initializing the workspace configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	WorkspaceDir = ".apdiff"
	ConfigFile   = "config"
	DatabaseFile = "history.db"
)

// Defaults
const (
	DefaultMoveThreshold = 0.5
	DefaultOutputFormat  = "text"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// OutputFormats lists the accepted values of output_format.
var OutputFormats = []string{"text", "stat", "floors", "json", "csv"}

// ErrNoWorkspace is returned when no .apdiff directory exists in the
// current directory or any parent.
var ErrNoWorkspace = errors.New("not an apdiff workspace (or any parent up to root)")

// Config represents the apdiff configuration
type Config struct {
	MoveThreshold float64 `toml:"move_threshold_m"`
	OutputFormat  string  `toml:"output_format"`
	LogLevel      string  `toml:"log_level"`
	LogFormat     string  `toml:"log_format"`
	MetricsFile   string  `toml:"metrics_file,omitempty"` // Prometheus textfile written after each compare
	Tracing       bool    `toml:"tracing"`
	path          string  // path to .apdiff directory, empty outside a workspace
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MoveThreshold: DefaultMoveThreshold,
		OutputFormat:  DefaultOutputFormat,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// FindRoot finds the .apdiff directory by walking up from the current directory
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(dir)
}

// FindRootFrom finds the .apdiff directory by walking up from dir
func FindRootFrom(dir string) (string, error) {
	for {
		wsPath := filepath.Join(dir, WorkspaceDir)
		if info, err := os.Stat(wsPath); err == nil && info.IsDir() {
			return wsPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoWorkspace
		}
		dir = parent
	}
}

// Load loads the configuration from the enclosing .apdiff directory
func Load() (*Config, error) {
	wsPath, err := FindRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(filepath.Join(wsPath, ConfigFile))
	if err != nil {
		return nil, err
	}
	cfg.path = wsPath
	return cfg, nil
}

// LoadFile loads a configuration file. Keys missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the effective configuration for the current directory.
// See ResolveFrom.
func Resolve(explicit string) (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return ResolveFrom(dir, explicit)
}

// ResolveFrom loads the effective configuration for dir. An explicit file
// wins over the workspace config, and outside a workspace the defaults
// apply. The result stays attached to the enclosing workspace, if any, so
// comparison history can still be stored.
func ResolveFrom(dir, explicit string) (*Config, error) {
	root, rootErr := FindRootFrom(dir)
	if rootErr != nil && !errors.Is(rootErr, ErrNoWorkspace) {
		return nil, rootErr
	}

	var (
		cfg *Config
		err error
	)
	switch {
	case explicit != "":
		cfg, err = LoadFile(explicit)
	case rootErr == nil:
		cfg, err = LoadFile(filepath.Join(root, ConfigFile))
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}

	if rootErr == nil {
		cfg.path = root
	}
	return cfg, nil
}

// Validate checks the threshold and output format.
func (c *Config) Validate() error {
	if c.MoveThreshold <= 0 || math.IsNaN(c.MoveThreshold) || math.IsInf(c.MoveThreshold, 0) {
		return fmt.Errorf("move_threshold_m must be a positive number, got %v", c.MoveThreshold)
	}
	for _, f := range OutputFormats {
		if c.OutputFormat == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output_format %q", c.OutputFormat)
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config is not attached to a workspace")
	}
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Path returns the path to the .apdiff directory
func (c *Config) Path() string {
	return c.path
}

// InWorkspace reports whether the config was loaded from a workspace.
func (c *Config) InWorkspace() bool {
	return c.path != ""
}

// DatabasePath returns the path to the bbolt history database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// Initialize creates a new .apdiff directory in dir with the default configuration
func Initialize(dir string) (*Config, error) {
	wsPath := filepath.Join(dir, WorkspaceDir)

	// Check if already initialized
	if _, err := os.Stat(wsPath); err == nil {
		return nil, fmt.Errorf("apdiff workspace already exists at %s", wsPath)
	}

	if err := os.MkdirAll(wsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}

	cfg := Default()
	cfg.path = wsPath

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(wsPath)
		return nil, err
	}

	return cfg, nil
}

// Package config loads .duprank.yml (or .yaml/.toml) configuration files,
// applies environment overrides, and validates the inputs of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/garagon/duprank/internal/types"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvRoot         = "DUPRANK_ROOT"
	EnvPrefixMarker = "DUPRANK_PREFIX_MARKER"
)

// FileNames are searched in order; the first one present wins.
var FileNames = []string{".duprank.yml", ".duprank.yaml", ".duprank.toml"}

const maxConfigSize = 1 << 20

// Config represents the .duprank.yml configuration file.
type Config struct {
	Root         string   `yaml:"root,omitempty" toml:"root,omitempty"`
	PrefixMarker string   `yaml:"prefix_marker,omitempty" toml:"prefix_marker,omitempty"`
	Format       string   `yaml:"format,omitempty" toml:"format,omitempty"`
	Order        string   `yaml:"order,omitempty" toml:"order,omitempty"`
	Workers      int      `yaml:"workers,omitempty" toml:"workers,omitempty"`
	MinRatio     float64  `yaml:"min_ratio,omitempty" toml:"min_ratio,omitempty"`
	FailAbove    float64  `yaml:"fail_above,omitempty" toml:"fail_above,omitempty"`
	Ignore       []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	Baseline     string   `yaml:"baseline,omitempty" toml:"baseline,omitempty"`
}

// Load reads the first config file found in dir. If dir is a file, its
// parent directory is used. If no config file is found, it returns a zero
// Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		return LoadFile(path)
	}
	return Config{}, nil
}

// LoadFile reads an explicit config file. The format follows the extension:
// .toml is TOML, anything else is YAML.
func LoadFile(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads dir/.env into the process environment (existing variables
// win) and lets DUPRANK_* variables override file values.
func ApplyEnv(cfg *Config, dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	if v := strings.TrimSpace(os.Getenv(EnvRoot)); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv(EnvPrefixMarker); v != "" {
		cfg.PrefixMarker = v
	}
}

// Run holds the two required inputs of a ranking run.
type Run struct {
	ReportPath    string
	RootDirectory string
}

// Validate checks both inputs before any work starts. Missing values wrap
// types.ErrUsage; paths that do not exist wrap types.ErrFileNotFound.
func (r Run) Validate() error {
	if strings.TrimSpace(r.ReportPath) == "" {
		return fmt.Errorf("%w: report path is required", types.ErrUsage)
	}
	if strings.TrimSpace(r.RootDirectory) == "" {
		return fmt.Errorf("%w: root directory is required", types.ErrUsage)
	}

	info, err := os.Stat(r.ReportPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("report %s: %w", r.ReportPath, types.ErrFileNotFound)
	case err != nil:
		return fmt.Errorf("report %s: %w: %v", r.ReportPath, types.ErrFileUnreadable, err)
	case info.IsDir():
		return fmt.Errorf("%w: report %s is a directory", types.ErrUsage, r.ReportPath)
	}

	info, err = os.Stat(r.RootDirectory)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("root %s: %w", r.RootDirectory, types.ErrFileNotFound)
	case err != nil:
		return fmt.Errorf("root %s: %w: %v", r.RootDirectory, types.ErrFileUnreadable, err)
	case !info.IsDir():
		return fmt.Errorf("%w: root %s is not a directory", types.ErrUsage, r.RootDirectory)
	}
	return nil
}

// Package config loads the goldentower run configuration: build options
// and parameter overrides from a YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/greenspire/goldentower/export"
	"github.com/greenspire/goldentower/params"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "goldentower.yaml"

// Environment variables that override the file.
const (
	EnvOut   = "GOLDENTOWER_OUT"
	EnvCells = "GOLDENTOWER_CELLS"
)

// Config holds one run configuration.
type Config struct {
	Build BuildConfig `yaml:"build"`

	// Parameters starts from params.Default; keys present in the file
	// replace single fields.
	Parameters params.ParameterSet `yaml:"parameters"`
}

// BuildConfig configures what is built and which artifacts are written.
type BuildConfig struct {
	OutDir     string   `yaml:"out_dir"`
	MeshCells  int      `yaml:"mesh_cells"`           // cells along the longest axis
	Components []string `yaml:"components,omitempty"` // empty builds the tower parts
	Coupons    bool     `yaml:"coupons"`
	Material   string   `yaml:"material"` // pla, petg, abs or empty

	Visual        bool `yaml:"visual"`
	CrossSections bool `yaml:"cross_sections"`
	RenderTile    int  `yaml:"render_tile"`
	Workbook      bool `yaml:"workbook"`
	ReviewSheet   bool `yaml:"review_sheet"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			OutDir:        export.DefaultRoot,
			MeshCells:     export.DefaultMeshCells,
			CrossSections: true,
			RenderTile:    400,
			Workbook:      true,
			ReviewSheet:   true,
		},
		Parameters: params.Default(),
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if out := os.Getenv(EnvOut); out != "" {
		c.Build.OutDir = out
	}
	if cells := os.Getenv(EnvCells); cells != "" {
		n, err := strconv.Atoi(cells)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCells, err)
		}
		c.Build.MeshCells = n
	}
	return nil
}

// Validate checks the build options and the parameter set.
func (c *Config) Validate() error {
	if c.Build.OutDir == "" {
		return fmt.Errorf("build.out_dir is empty")
	}
	if c.Build.MeshCells < 2 {
		return fmt.Errorf("build.mesh_cells %d must be at least 2", c.Build.MeshCells)
	}
	if err := c.Parameters.Validate(); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	return nil
}

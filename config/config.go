// Package config provides configuration loading and access for the demo.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all demo configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Domain    DomainConfig    `yaml:"domain"`
	Bubbles   BubblesConfig   `yaml:"bubbles"`
	Clear     ClearConfig     `yaml:"clear"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DomainConfig holds the logical coordinate space of the simulation.
// Bubbles are generated in [0, 2*size] per axis, independent of the
// display resolution; the wrap math maps them into the live window.
type DomainConfig struct {
	Size int `yaml:"size"`
}

// BubblesConfig holds generation parameters for the bubble set.
// Radius and speed are fractions of the domain size.
type BubblesConfig struct {
	Count      int     `yaml:"count"`
	RadiusMin  float64 `yaml:"radius_min"`
	RadiusMax  float64 `yaml:"radius_max"`
	RadiusBias float64 `yaml:"radius_bias"` // uniform sample raised to this power; higher favors small bubbles
	Speed      float64 `yaml:"speed"`       // velocity range is (-speed/2, +speed/2) * size per axis
	ColorMin   float64 `yaml:"color_min"`
	ColorMax   float64 `yaml:"color_max"`
	AlphaMin   float64 `yaml:"alpha_min"`
	AlphaMax   float64 `yaml:"alpha_max"`
}

// ClearConfig holds the color the off-screen image starts from.
type ClearConfig struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	ReportInterval float64 `yaml:"report_interval"` // seconds between fps log lines
	Window         int     `yaml:"window"`          // frame samples retained for aggregation
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Size32      float32 // Domain.Size as float32
	DomainW32   float32 // full domain extent, 2*Domain.Size
	RadiusMin32 float32 // Bubbles.RadiusMin scaled by Domain.Size
	RadiusMax32 float32 // Bubbles.RadiusMax scaled by Domain.Size
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Size32 = float32(c.Domain.Size)
	c.Derived.DomainW32 = float32(2 * c.Domain.Size)
	c.Derived.RadiusMin32 = float32(c.Bubbles.RadiusMin * float64(c.Domain.Size))
	c.Derived.RadiusMax32 = float32(c.Bubbles.RadiusMax * float64(c.Domain.Size))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

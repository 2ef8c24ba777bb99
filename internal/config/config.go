package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 10.0
	DefaultHeight     = 8.0
	DefaultBackend    = "gonum"
	DefaultOutputName = "out.png"
	DefaultLogLevel   = "info"
)

// Backends lists the renderers a config may name.
var Backends = []string{"gonum", "gochart"}

type Config struct {
	Input         string   `yaml:"input"`
	Output        string   `yaml:"output"`
	Format        string   `yaml:"format"`
	Backend       string   `yaml:"backend"`
	Width         float64  `yaml:"width"`
	Height        float64  `yaml:"height"`
	Preset        string   `yaml:"preset"`
	Series        []string `yaml:"series"`
	XAxis         string   `yaml:"x_axis"`
	Preview       bool     `yaml:"preview"`
	DropLastToken bool     `yaml:"drop_last_token"`
	LogLevel      string   `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:  DefaultBackend,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: figure size must be positive, got %gx%g", c.Width, c.Height)
	}
	switch c.Format {
	case "", "csv", "log":
	default:
		return fmt.Errorf("config: unknown format %q (want csv or log)", c.Format)
	}
	for _, b := range Backends {
		if c.Backend == b {
			return nil
		}
	}
	return fmt.Errorf("config: unknown backend %q", c.Backend)
}

// OutputPath returns the configured output, or out.png beside the input file.
func (c *Config) OutputPath(input string) string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(filepath.Dir(input), DefaultOutputName)
}

// ApplyPreset copies the non-zero figure settings of p onto c.
func (c *Config) ApplyPreset(p *Config) {
	if p == nil {
		return
	}
	if p.Width > 0 {
		c.Width = p.Width
	}
	if p.Height > 0 {
		c.Height = p.Height
	}
	if p.Backend != "" {
		c.Backend = p.Backend
	}
}

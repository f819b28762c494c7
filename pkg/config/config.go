// Package config provides YAML configuration loading for the CLI.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds tunables for import and rendering
type Config struct {
	Import struct {
		// Workers bounds the parse worker pool during series import
		Workers int `yaml:"workers"`
	} `yaml:"import"`

	Render struct {
		Width        int     `yaml:"width"`
		Height       int     `yaml:"height"`
		Mode         string  `yaml:"mode"` // dvr, mip, minip
		StepSize     float64 `yaml:"stepSize"`
		MaxSteps     int     `yaml:"maxSteps"`
		DensityScale float64 `yaml:"densityScale"`
		Shading      bool    `yaml:"shading"`
	} `yaml:"render"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"` // empty = stdout only
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Import.Workers = runtime.NumCPU()
	cfg.Render.Width = 512
	cfg.Render.Height = 512
	cfg.Render.Mode = "dvr"
	cfg.Render.StepSize = 0.004
	cfg.Render.MaxSteps = 1024
	cfg.Render.DensityScale = 1.0
	cfg.Render.Shading = true
	cfg.Log.Level = "INFO"
	return cfg
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Import.Workers <= 0 {
		cfg.Import.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

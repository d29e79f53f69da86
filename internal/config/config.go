package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ListerWalk   = "walk"
	ListerScript = "script"
	ListerDocker = "docker"
)

type Config struct {
	Lister  Lister  `yaml:"lister"`
	Pricing Pricing `yaml:"pricing"`
	Report  Report  `yaml:"report"`
	Batch   Batch   `yaml:"batch"`
}

// Lister selects how a run directory is turned into record lines.
type Lister struct {
	Kind    string        `yaml:"kind"`
	Script  string        `yaml:"script"`
	Image   string        `yaml:"image"`
	Timeout time.Duration `yaml:"timeout"`
}

type Pricing struct {
	File     string `yaml:"file"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type Report struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
}

type Batch struct {
	Parallel int `yaml:"parallel"`
}

func Default() *Config {
	return &Config{
		Lister: Lister{
			Kind:    ListerWalk,
			Timeout: 2 * time.Minute,
		},
		Report: Report{
			Format: "diff",
			Color:  "auto",
		},
		Batch: Batch{Parallel: 4},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not
// exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func validate(cfg *Config) error {
	switch cfg.Lister.Kind {
	case ListerWalk:
	case ListerScript:
		if cfg.Lister.Script == "" {
			return fmt.Errorf("lister: script is required for kind %q", cfg.Lister.Kind)
		}
	case ListerDocker:
		if cfg.Lister.Image == "" {
			return fmt.Errorf("lister: image is required for kind %q", cfg.Lister.Kind)
		}
	default:
		return fmt.Errorf("lister: unknown kind %q", cfg.Lister.Kind)
	}
	if cfg.Lister.Timeout <= 0 {
		return fmt.Errorf("lister: timeout must be positive")
	}
	if cfg.Pricing.File != "" && (cfg.Pricing.Provider == "" || cfg.Pricing.Model == "") {
		return fmt.Errorf("pricing: provider and model are required with a pricing file")
	}
	if cfg.Batch.Parallel < 1 {
		return fmt.Errorf("batch: parallel must be at least 1")
	}
	return nil
}

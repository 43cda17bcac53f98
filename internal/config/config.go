package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost        = "localhost"
	DefaultPort        = 5000
	DefaultInterval    = 100
	DefaultModel       = "lj"
	DefaultParticles   = 64
	DefaultDt          = 0.002
	DefaultSteps       = 50000
	DefaultBox         = 4.0
	DefaultTemperature = 300.0
)

type Config struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Interval    int      `yaml:"interval"`
	Observables []string `yaml:"observables"`

	Model       string  `yaml:"model"`
	Particles   int     `yaml:"particles"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Seed        int64   `yaml:"seed"`
	Box         float64 `yaml:"box"`
	Temperature float64 `yaml:"temperature"`
}

func Default() *Config {
	return &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		Interval:    DefaultInterval,
		Observables: []string{"total", "kinetic", "potential", "temperature"},
		Model:       DefaultModel,
		Particles:   DefaultParticles,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Box:         DefaultBox,
		Temperature: DefaultTemperature,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
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
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535, got %d", c.Port)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", c.Interval)
	}
	if len(c.Observables) == 0 {
		return fmt.Errorf("at least one observable is required")
	}
	switch c.Model {
	case "lj", "chain":
	default:
		return fmt.Errorf("unknown model %q, choose lj or chain", c.Model)
	}
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Box <= 0 {
		return fmt.Errorf("box must be positive, got %f", c.Box)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %f", c.Temperature)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

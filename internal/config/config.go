package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Log selects the logger flavour and sink.
type Log struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config holds the optional runtime settings; the quiz itself lives in a separate JSON document.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Quiz struct {
		TTL        string `yaml:"ttl"`
		OpenImages bool   `yaml:"openImages"`
	} `yaml:"quiz"`
	Log Log `yaml:"log"`
}

// Load reads YAML settings from path. An empty path yields the zero Config.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"metasearch/search"
)

// Config is the process configuration, loaded from a YAML file.
type Config struct {
	Port              int    `yaml:"port"`
	Language          string `yaml:"language"`
	CachePath         string `yaml:"cache_path"`
	CacheTTLMinutes   int    `yaml:"cache_ttl_minutes"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`

	Engines map[string]EngineConfig `yaml:"engines"`
}

// EngineConfig carries one engine's open key-value settings table.
type EngineConfig struct {
	Extra map[string]string `yaml:"extra"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{
		Port:              8080,
		CacheTTLMinutes:   10,
		RequestsPerMinute: 30,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// QueryConfig converts the file config into the query configuration the
// adapters consume.
func (c *Config) QueryConfig() search.Config {
	engines := make(map[search.Engine]search.EngineConfig, len(c.Engines))
	for name, ec := range c.Engines {
		engines[search.Engine(name)] = search.EngineConfig{Extra: ec.Extra}
	}
	return search.Config{Language: c.Language, Engines: engines}
}

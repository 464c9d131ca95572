package containerapps

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding containerapp %s: %w", cfg.Name, err)
	}
	return data, nil
}

func Unmarshal(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding containerapp: %w", err)
	}
	return &cfg, nil
}

// WriteFile renders cfg to path, replacing any existing file, and returns
// the rendered document.
func WriteFile(path string, cfg *Config) ([]byte, error) {
	data, err := Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return data, fmt.Errorf("writing %s: %w", path, err)
	}
	return data, nil
}

func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Unmarshal(data)
}

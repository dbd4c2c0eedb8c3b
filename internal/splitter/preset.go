package splitter

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadPreset reads a YAML preset over the defaults. Presets may carry
// any subset of the Config fields; unset fields keep their default.
// The result is validated before being returned.
func LoadPreset(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("splitter: read preset: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("splitter: parse preset %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("splitter: preset %s: %w", path, err)
	}
	return cfg, nil
}

// SavePreset writes the config as a YAML preset file.
func SavePreset(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("splitter: marshal preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("splitter: write preset: %w", err)
	}
	return nil
}

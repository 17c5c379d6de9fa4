package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// configNames lists the file names probed in the user and local config directories.
var configNames = []string{"dodge.yaml", "dodge.yml", "dodge.toml"}

// LoadDodge loads the dodge configuration.
// Search order: customPath -> ~/.dodge/configs/dodge.{yaml,yml,toml} -> ./configs/dodge.{yaml,yml,toml} -> embedded default.
// Files are decoded over the defaults, so a file may set only the keys it cares about.
// A custom path that cannot be read, parsed or validated is an error; the other
// locations are skipped silently when unusable.
func LoadDodge(customPath string) (DodgeConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return DefaultDodgeConfig(), err
		}
		return cfg, nil
	}

	for _, dir := range searchDirs() {
		for _, name := range configNames {
			if cfg, err := loadFile(filepath.Join(dir, name)); err == nil {
				return cfg, nil
			}
		}
	}

	cfg := DefaultDodgeConfig()
	if err := yaml.Unmarshal(defaultDodgeYAML, &cfg); err != nil {
		return DefaultDodgeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// loadFile reads, decodes and validates a single config file.
func loadFile(path string) (DodgeConfig, error) {
	cfg := DefaultDodgeConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := Decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data into cfg, picking the format from the file extension.
// Unknown extensions are treated as YAML.
func Decode(path string, data []byte, cfg *DodgeConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Encode renders cfg as YAML or TOML.
func Encode(cfg DodgeConfig, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "toml":
		return toml.Marshal(cfg)
	case "yaml", "yml", "":
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
}

// searchDirs returns the directories probed for a config file, in priority order.
func searchDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".dodge", "configs"))
	}
	return append(dirs, "configs")
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the game configuration.
// Search order: customPath -> ~/.config/pairs/config.yaml -> ./config.yaml
// -> embedded default. User files are unmarshalled over the defaults, so
// a partial file only overrides the fields it names. The result is
// validated before it is returned.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try the user config directory, then the working directory. A file
	// that is missing or unreadable here is not an error; broken YAML is.
	for _, path := range []string{userConfigPath(), "config.yaml"} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, cfg.Validate()
	}

	return cfg, cfg.Validate()
}

// userConfigPath returns the per-user config location, or empty when the
// home directory is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pairs", "config.yaml")
}

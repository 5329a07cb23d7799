package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"mapforge/internal/mapgen"
)

var configProfile string

// SetProfile sets the config profile for multiple instances.
func SetProfile(profile string) {
	configProfile = profile
}

// Config holds viewer configuration.
type Config struct {
	// Server is used for remote generation when set.
	LastServer string `json:"last_server"`

	// LastParams are the settings of the last map shown.
	LastParams mapgen.Params `json:"last_params"`

	// SaveRemote stores maps generated through the server.
	SaveRemote bool `json:"save_remote"`

	// Overlay preferences
	ShowContinents bool `json:"show_continents"`
	ShowSpecials   bool `json:"show_specials"`
	ShowGrid       bool `json:"show_grid"`

	// Window geometry (remembered between sessions)
	WindowWidth  int `json:"window_width,omitempty"`
	WindowHeight int `json:"window_height,omitempty"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		LastParams:   mapgen.DefaultParams(),
		ShowSpecials: true,
	}
}

// LoadConfig loads config from the user's config directory.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	// missing fields keep their defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.LastParams.Validate(); err != nil {
		cfg.LastParams = mapgen.DefaultParams()
	}

	return cfg, nil
}

// Save saves the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.saveFile(path)
}

func (c *Config) saveFile(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	filename := "config.json"
	if configProfile != "" {
		filename = "config-" + configProfile + ".json"
	}

	return filepath.Join(configDir, "mapforge", filename), nil
}

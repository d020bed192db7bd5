package config

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger = log.WithField("package", "config")

const (
	DefaultAPIEndpoint = "https://api.github.com"
	DefaultTokenEnv    = "GITHUB_TOKEN"
	DefaultOutputDir   = "./output"
)

// configFileNames are searched in the working directory when no
// explicit path is given.
var configFileNames = []string{".prbridge.yaml", ".prbridge.yml"}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: DefaultAPIEndpoint,
			TokenEnv:    DefaultTokenEnv,
		},
		Defaults: DefaultsConfig{
			LogLevel:  "info",
			OutputDir: DefaultOutputDir,
		},
	}
}

// Load builds the effective configuration: defaults first, then the
// config file if one exists, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
		logger.WithField("file", file).Debug("Loaded configuration file")
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile resolves which config file to load. An explicit path
// must exist; otherwise the working directory and the user config
// directory are searched, and absence is fine.
func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return path, nil
	}

	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "prbridge", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		cfg.GitHub.APIEndpoint = v
	}
	if v := os.Getenv("PRBRIDGE_LOG_LEVEL"); v != "" {
		cfg.Defaults.LogLevel = v
	}
	if v := os.Getenv("GITHUB_APP_ID"); v != "" {
		cfg.GitHub.App.ID = v
	}
	if v := os.Getenv("GITHUB_APP_INSTALLATION_ID"); v != "" {
		cfg.GitHub.App.InstallationID = v
	}
	if v := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"); v != "" {
		cfg.GitHub.App.PrivateKeyPath = v
	}
}

// Validate checks the configuration for values that cannot work.
func Validate(cfg *Config) error {
	if cfg.GitHub.APIEndpoint == "" {
		return fmt.Errorf("github.api_endpoint cannot be empty")
	}
	if cfg.GitHub.TokenEnv == "" {
		return fmt.Errorf("github.token_env cannot be empty")
	}

	app := cfg.GitHub.App
	if (app.ID != "" || app.InstallationID != "" || app.PrivateKeyPath != "") && !app.Configured() {
		return fmt.Errorf("github.app requires id, installation_id and private_key_path together")
	}

	if cfg.Defaults.LogLevel != "" {
		if _, err := log.ParseLevel(cfg.Defaults.LogLevel); err != nil {
			return fmt.Errorf("invalid defaults.log_level: %w", err)
		}
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv isolates a test from ambient configuration: a scratch HOME
// and no override variables
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_API_URL", "")
	t.Setenv("PRBRIDGE_LOG_LEVEL", "")
	t.Setenv("GITHUB_APP_ID", "")
	t.Setenv("GITHUB_APP_INSTALLATION_ID", "")
	t.Setenv("GITHUB_APP_PRIVATE_KEY_PATH", "")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoad_Defaults tests the configuration with no file and no
// environment overrides
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("APIEndpoint = %v, want %v", cfg.GitHub.APIEndpoint, DefaultAPIEndpoint)
	}
	if cfg.GitHub.TokenEnv != DefaultTokenEnv {
		t.Errorf("TokenEnv = %v, want %v", cfg.GitHub.TokenEnv, DefaultTokenEnv)
	}
	if cfg.Defaults.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.Defaults.LogLevel)
	}
	if cfg.Defaults.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %v, want %v", cfg.Defaults.OutputDir, DefaultOutputDir)
	}
	if cfg.GitHub.App.Configured() {
		t.Error("App.Configured() = true, want false")
	}
}

// TestLoad_File tests that file values land on top of defaults
// without wiping what the file does not mention
func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `
github:
  api_endpoint: https://ghe.example.com/api/v3
defaults:
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != "https://ghe.example.com/api/v3" {
		t.Errorf("APIEndpoint = %v, want the file value", cfg.GitHub.APIEndpoint)
	}
	if cfg.Defaults.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.Defaults.LogLevel)
	}
	// Untouched by the file, so the defaults must survive.
	if cfg.GitHub.TokenEnv != DefaultTokenEnv {
		t.Errorf("TokenEnv = %v, want %v", cfg.GitHub.TokenEnv, DefaultTokenEnv)
	}
	if cfg.Defaults.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %v, want %v", cfg.Defaults.OutputDir, DefaultOutputDir)
	}
}

// TestLoad_EnvOverrides tests that environment variables beat both
// defaults and file values
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `
github:
  api_endpoint: https://from-file.example.com
defaults:
  log_level: debug
`)

	t.Setenv("GITHUB_API_URL", "https://from-env.example.com")
	t.Setenv("PRBRIDGE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != "https://from-env.example.com" {
		t.Errorf("APIEndpoint = %v, want the env value", cfg.GitHub.APIEndpoint)
	}
	if cfg.Defaults.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn", cfg.Defaults.LogLevel)
	}
}

// TestLoad_HomeConfig tests the user config directory fallback
func TestLoad_HomeConfig(t *testing.T) {
	clearEnv(t)

	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "prbridge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	content := "defaults:\n  log_level: error\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.LogLevel != "error" {
		t.Errorf("LogLevel = %v, want error (from home config)", cfg.Defaults.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "github: [unclosed")
		if _, err := Load(path); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})

	t.Run("invalid log level from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRBRIDGE_LOG_LEVEL", "verbose")
		if _, err := Load(""); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})
}

// TestValidate tests rejection of configurations that cannot work
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:        "empty api endpoint",
			mutate:      func(cfg *Config) { cfg.GitHub.APIEndpoint = "" },
			expectError: true,
		},
		{
			name:        "empty token env",
			mutate:      func(cfg *Config) { cfg.GitHub.TokenEnv = "" },
			expectError: true,
		},
		{
			name: "partial app credentials",
			mutate: func(cfg *Config) {
				cfg.GitHub.App.ID = "12345"
			},
			expectError: true,
		},
		{
			name: "complete app credentials",
			mutate: func(cfg *Config) {
				cfg.GitHub.App = AppConfig{ID: "12345", InstallationID: "77", PrivateKeyPath: "/tmp/key.pem"}
			},
		},
		{
			name:        "bad log level",
			mutate:      func(cfg *Config) { cfg.Defaults.LogLevel = "loud" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.expectError && err == nil {
				t.Errorf("Validate() error = nil, want error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

// TestAppConfig_Configured tests the all-or-nothing credential check
func TestAppConfig_Configured(t *testing.T) {
	tests := []struct {
		name     string
		app      AppConfig
		expected bool
	}{
		{
			name:     "empty",
			app:      AppConfig{},
			expected: false,
		},
		{
			name:     "complete",
			app:      AppConfig{ID: "1", InstallationID: "2", PrivateKeyPath: "/k.pem"},
			expected: true,
		},
		{
			name:     "missing key path",
			app:      AppConfig{ID: "1", InstallationID: "2"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.app.Configured(); got != tt.expected {
				t.Errorf("Configured() = %v, want %v", got, tt.expected)
			}
		})
	}
}

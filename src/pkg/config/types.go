package config

// Config represents the complete tool configuration
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// GitHubConfig represents API connectivity settings
type GitHubConfig struct {
	// APIEndpoint is the REST API base URL. Overridable for GitHub
	// Enterprise deployments.
	APIEndpoint string `yaml:"api_endpoint"`
	// TokenEnv names the environment variable raw API calls read
	// their token from at call time.
	TokenEnv string    `yaml:"token_env"`
	App      AppConfig `yaml:"app"`
}

// AppConfig represents GitHub App credentials used to mint
// installation tokens when no personal token is available.
type AppConfig struct {
	ID             string `yaml:"id"`
	InstallationID string `yaml:"installation_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

// Configured reports whether all App credentials are present.
func (a AppConfig) Configured() bool {
	return a.ID != "" && a.InstallationID != "" && a.PrivateKeyPath != ""
}

// DefaultsConfig represents behavior defaults for the CLI
type DefaultsConfig struct {
	LogLevel     string `yaml:"log_level"`
	OutputDir    string `yaml:"output_dir"`
	TemplatePath string `yaml:"template_path"`
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the service. Values come from
// environment variables (prefixed CI_) with an optional config.yaml override.
type Config struct {
	Port         string `mapstructure:"port"`
	DatabasePath string `mapstructure:"database_path"`
	UploadsDir   string `mapstructure:"uploads_dir"`
	ExportsDir   string `mapstructure:"exports_dir"`

	// Remote CRM API settings
	APIBaseURL string `mapstructure:"api_base_url"`

	// OAuth2 authorization-code flow settings
	OAuthClientID     string `mapstructure:"oauth_client_id"`
	OAuthClientSecret string `mapstructure:"oauth_client_secret"`
	OAuthAuthURL      string `mapstructure:"oauth_auth_url"`
	OAuthTokenURL     string `mapstructure:"oauth_token_url"`
	OAuthRedirectURL  string `mapstructure:"oauth_redirect_url"`
	OAuthScopes       string `mapstructure:"oauth_scopes"`

	// Secret used to sign the OAuth state parameter
	StateSigningKey string `mapstructure:"state_signing_key"`
}

// Load reads configuration from the environment and, if present, a
// config.yaml in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("database_path", "contact_importer.db")
	v.SetDefault("uploads_dir", "uploads")
	v.SetDefault("exports_dir", "exports")
	v.SetDefault("api_base_url", "https://api.cc.email/v3")
	v.SetDefault("oauth_auth_url", "https://authz.constantcontact.com/oauth2/default/v1/authorize")
	v.SetDefault("oauth_token_url", "https://authz.constantcontact.com/oauth2/default/v1/token")
	v.SetDefault("oauth_scopes", "contact_data offline_access")

	v.SetEnvPrefix("CI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that settings without usable defaults are present.
func (c *Config) Validate() error {
	var missing []string
	if c.OAuthClientID == "" {
		missing = append(missing, "oauth_client_id")
	}
	if c.OAuthClientSecret == "" {
		missing = append(missing, "oauth_client_secret")
	}
	if c.OAuthRedirectURL == "" {
		missing = append(missing, "oauth_redirect_url")
	}
	if c.StateSigningKey == "" {
		missing = append(missing, "state_signing_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

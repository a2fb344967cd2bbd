package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// DatabaseConfig holds the postgres connection settings. MaxConns of zero
// leaves the pool at its default size.
type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"required"`
	MaxConns int    `yaml:"maxConns,omitempty" validate:"omitempty,min=1"`
}

// Duration wraps time.Duration so yaml values like "24h" parse directly
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// AuthConfig holds session-token settings
type AuthConfig struct {
	JWTSecret  string   `yaml:"jwtSecret" validate:"required,min=16"`
	TokenTTL   Duration `yaml:"tokenTTL,omitempty"`
	BcryptCost int      `yaml:"bcryptCost,omitempty" validate:"omitempty,min=4,max=31"`
}

// MailConfig holds the optional approval-notification mailer settings.
// When Sender is empty no notification emails are sent.
type MailConfig struct {
	GmailUserID     string `yaml:"gmailUserID,omitempty"`
	Sender          string `yaml:"sender,omitempty" validate:"omitempty,email"`
	CredentialsPath string `yaml:"credentialsPath,omitempty"`
}

// Enabled reports whether the mailer is configured
func (m MailConfig) Enabled() bool {
	return m.Sender != ""
}

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Database DatabaseConfig `yaml:"database" validate:"required"`
	Auth     AuthConfig     `yaml:"auth" validate:"required"`
	Mail     MailConfig     `yaml:"mail,omitempty"`
}

// DefaultTokenTTL applies when auth.tokenTTL is absent from the file
const DefaultTokenTTL = Duration(24 * time.Hour)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from portal_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads portal_config.<env>.yaml for a named environment, or the
// plain portal_config.yaml when env is empty.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// The mailer needs all of its fields or none of them
	if (cfg.Mail.Sender == "") != (cfg.Mail.GmailUserID == "") {
		return fmt.Errorf("config validation failed: mail.sender and mail.gmailUserID must be set together")
	}
	if cfg.Mail.Enabled() && cfg.Mail.CredentialsPath == "" {
		return fmt.Errorf("config validation failed: mail.credentialsPath is required when the mailer is configured")
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and
// the home directory.
func findConfigFile(env string) (string, error) {
	configFileName := "portal_config.yaml"
	if env != "" {
		configFileName = fmt.Sprintf("portal_config.%s.yaml", env)
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}

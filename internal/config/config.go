package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/sentinel-report/")
	v.AddConfigPath("$HOME/.sentinel-report")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
func NewFromFile(path string) (*Config, error) {
	cfg, err := NewFromEnv()
	if err != nil {
		return nil, err
	}
	v := cfg.v
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return &Config{v: v}, nil
}

// NewFromEnv creates a configuration from defaults, .env and the environment,
// without searching for a config file
func NewFromEnv() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	v := NewEmptyViper()
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

const dotEnvFile = ".env"

// loadDotEnv exports the variables in path. The file is optional and never
// overrides variables already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s file: %w", path, err)
	}
	return nil
}

// bindEnv maps SENTINEL_* variables onto keys, plus the variable names the
// add-in deployment already uses
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	legacy := map[string]string{
		"report.infosec_email":     "INFOSEC_EMAIL",
		"report.spam_report_email": "SPAM_REPORT_EMAIL",
		"report.support_email":     "SUPPORT_EMAIL",
		"report.base_url":          "GOPHISH_URL",
		"server.port":              "PORT",
	}
	for key, env := range legacy {
		prefixed := "SENTINEL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Report defaults
	v.SetDefault("report.infosec_email", "infosec@company.com")
	v.SetDefault("report.spam_report_email", "spam-report@company.com")
	v.SetDefault("report.support_email", "support@company.com")
	v.SetDefault("report.base_url", "https://saskaatoon.ca")
	v.SetDefault("report.version", "1.0.0")
	v.SetDefault("report.listener_port", 3333)
	v.SetDefault("report.marker_header", "X-SENTINEL-AJSMN")
	v.SetDefault("report.host_timeout", "30s")
	v.SetDefault("report.reported_category", "ReportedAsPhishing")
	v.SetDefault("report.footer", "ADGSentinel Report Add-in v1.0 | Powered by sentinel-report")
	v.SetDefault("report.config_url", "")

	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "")
	v.SetDefault("server.asset_dir", ".")
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("server.cert_file", "certs/cert.pem")
	v.SetDefault("server.key_file", "certs/key.pem")
	v.SetDefault("server.environment", "server")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Asset cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_frequency", "10m")

	// Host defaults
	v.SetDefault("host.mailbox", "eml")
	v.SetDefault("host.composer", "draft")
	v.SetDefault("host.user.display_name", "")
	v.SetDefault("host.user.email", "")
	v.SetDefault("host.user.timezone", "UTC")

	// eml host defaults
	v.SetDefault("eml.path", "")

	// Draft composer defaults
	v.SetDefault("draft.dir", "./drafts")

	// IMAP defaults
	v.SetDefault("imap.address", "localhost:993")
	v.SetDefault("imap.username", "")
	v.SetDefault("imap.password", "")
	v.SetDefault("imap.tls", true)
	v.SetDefault("imap.mailbox", "INBOX")
	v.SetDefault("imap.uid", 0)

	// SMTP defaults
	v.SetDefault("smtp.address", "localhost:587")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.helo", "")
	v.SetDefault("smtp.starttls", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}

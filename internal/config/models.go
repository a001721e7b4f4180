package config

import (
	"fmt"
	"time"

	"github.com/mikey/sentinel-report/internal/core"
)

// ServerConfig represents the configuration for the asset/config server
type ServerConfig struct {
	Host            string
	Port            int
	AssetDir        string
	PublicDir       string
	CertFile        string
	KeyFile         string
	Environment     string
	ShutdownTimeout time.Duration
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig represents the configuration for the asset cache
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
}

// HostConfig selects the mail host adapters
type HostConfig struct {
	Mailbox  string
	Composer string
	User     core.UserInfo
}

// IMAPConfig represents the configuration for the IMAP mailbox host
type IMAPConfig struct {
	Address  string
	Username string
	Password string
	TLS      bool
	Mailbox  string
	UID      uint32
}

// SMTPConfig represents the configuration for the SMTP composer
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
	Helo     string
	StartTLS bool
}

// GetReport returns the report pipeline configuration
func (c *Config) GetReport() (core.ReportConfig, error) {
	timeout, err := c.GetDuration("report.host_timeout")
	if err != nil {
		return core.ReportConfig{}, fmt.Errorf("invalid report host timeout: %w", err)
	}
	return core.ReportConfig{
		InfosecEmail:     c.GetString("report.infosec_email"),
		SpamReportEmail:  c.GetString("report.spam_report_email"),
		SupportEmail:     c.GetString("report.support_email"),
		BaseURL:          c.GetString("report.base_url"),
		Version:          c.GetString("report.version"),
		ListenerPort:     c.GetInt("report.listener_port"),
		MarkerHeader:     c.GetString("report.marker_header"),
		HostTimeout:      timeout,
		ReportedCategory: c.GetString("report.reported_category"),
		Footer:           c.GetString("report.footer"),
	}.WithDefaults(), nil
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	shutdown, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server shutdown timeout: %w", err)
	}
	return ServerConfig{
		Host:            c.GetString("server.host"),
		Port:            c.GetInt("server.port"),
		AssetDir:        c.GetString("server.asset_dir"),
		PublicDir:       c.GetString("server.public_dir"),
		CertFile:        c.GetString("server.cert_file"),
		KeyFile:         c.GetString("server.key_file"),
		Environment:     c.GetString("server.environment"),
		ShutdownTimeout: shutdown,
	}, nil
}

// GetCache returns the asset cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache TTL: %w", err)
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
	}, nil
}

// GetHost returns the mail host configuration
func (c *Config) GetHost() HostConfig {
	return HostConfig{
		Mailbox:  c.GetString("host.mailbox"),
		Composer: c.GetString("host.composer"),
		User: core.UserInfo{
			DisplayName: c.GetString("host.user.display_name"),
			Email:       c.GetString("host.user.email"),
			TimeZone:    c.GetString("host.user.timezone"),
		},
	}
}

// GetIMAP returns the IMAP configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Address:  c.GetString("imap.address"),
		Username: c.GetString("imap.username"),
		Password: c.GetString("imap.password"),
		TLS:      c.GetBool("imap.tls"),
		Mailbox:  c.GetString("imap.mailbox"),
		UID:      uint32(c.GetInt("imap.uid")),
	}
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		Helo:     c.GetString("smtp.helo"),
		StartTLS: c.GetBool("smtp.starttls"),
	}
}

// GetEMLPath returns the path of the message file for the eml host
func (c *Config) GetEMLPath() string {
	return c.GetString("eml.path")
}

// GetDraftDir returns the directory the draft composer writes to
func (c *Config) GetDraftDir() string {
	return c.GetString("draft.dir")
}

// GetConfigURL returns the base URL of the config service, or "" if unset
func (c *Config) GetConfigURL() string {
	return c.GetString("report.config_url")
}

package core

import (
	"time"
)

const (
	DefaultInfosecEmail     = "infosec@company.com"
	DefaultSpamReportEmail  = "spam-report@company.com"
	DefaultSupportEmail     = "support@company.com"
	DefaultBaseURL          = "https://saskaatoon.ca"
	DefaultVersion          = "1.0.0"
	DefaultListenerPort     = 3333
	DefaultMarkerHeader     = "X-SENTINEL-AJSMN"
	DefaultHostTimeout      = 30 * time.Second
	DefaultReportedCategory = "ReportedAsPhishing"
	DefaultFooter           = "ADGSentinel Report Add-in v1.0 | Powered by sentinel-report"
)

// ReportConfig is the static configuration of the report pipeline
type ReportConfig struct {
	InfosecEmail    string
	SpamReportEmail string
	SupportEmail    string
	BaseURL         string
	Version         string
	// ListenerPort is carried for the simulation platform and not used by the pipeline
	ListenerPort     int
	MarkerHeader     string
	HostTimeout      time.Duration
	ReportedCategory string
	Footer           string
}

// DefaultReportConfig returns a configuration with every field set to its default
func DefaultReportConfig() ReportConfig {
	return ReportConfig{}.WithDefaults()
}

// WithDefaults returns a copy of c with empty fields replaced by defaults
func (c ReportConfig) WithDefaults() ReportConfig {
	if c.InfosecEmail == "" {
		c.InfosecEmail = DefaultInfosecEmail
	}
	if c.SpamReportEmail == "" {
		c.SpamReportEmail = DefaultSpamReportEmail
	}
	if c.SupportEmail == "" {
		c.SupportEmail = DefaultSupportEmail
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.ListenerPort == 0 {
		c.ListenerPort = DefaultListenerPort
	}
	if c.MarkerHeader == "" {
		c.MarkerHeader = DefaultMarkerHeader
	}
	if c.HostTimeout <= 0 {
		c.HostTimeout = DefaultHostTimeout
	}
	if c.ReportedCategory == "" {
		c.ReportedCategory = DefaultReportedCategory
	}
	if c.Footer == "" {
		c.Footer = DefaultFooter
	}
	return c
}

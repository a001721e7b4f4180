package ports

import (
	"context"
)

// RemoteConfig is the configuration payload published by the asset/config service
type RemoteConfig struct {
	InfosecEmail    string `json:"infosecEmail"`
	SpamReportEmail string `json:"spamReportEmail"`
	SupportEmail    string `json:"supportEmail"`
	GophishURL      string `json:"gophishUrl,omitempty"`
	Version         string `json:"version"`
}

// ConfigSource fetches the published configuration payload
type ConfigSource interface {
	Fetch(ctx context.Context) (*RemoteConfig, error)
}

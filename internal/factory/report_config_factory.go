package factory

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/adapters/configsvc"
	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/ports"
)

// ReportConfigFactory resolves the report configuration, overlaying the
// published config service values when report.config_url is set
type ReportConfigFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	source ports.ConfigSource
}

// NewReportConfigFactory creates a new report config factory
func NewReportConfigFactory(cfg *config.Config, logger *zap.Logger) *ReportConfigFactory {
	return &ReportConfigFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// WithSource replaces the config source used for the overlay
func (f *ReportConfigFactory) WithSource(source ports.ConfigSource) *ReportConfigFactory {
	f.source = source
	return f
}

// CreateReportConfig returns the local configuration with any remote overrides.
// A failed fetch leaves the local configuration in effect.
func (f *ReportConfigFactory) CreateReportConfig(ctx context.Context) (core.ReportConfig, error) {
	local, err := f.cfg.GetReport()
	if err != nil {
		return core.ReportConfig{}, err
	}

	source := f.source
	if source == nil {
		url := f.cfg.GetConfigURL()
		if url == "" {
			return local, nil
		}
		source = configsvc.NewClient(url, local.HostTimeout, f.logger)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, local.HostTimeout)
	defer cancel()

	remote, err := source.Fetch(fetchCtx)
	if err != nil {
		f.logger.Warn("Failed to fetch remote config, using local values", zap.Error(err))
		return local, nil
	}

	merged := overlayRemote(local, remote)
	f.logger.Info("Applied remote config",
		zap.String("infosec_email", merged.InfosecEmail),
		zap.String("spam_report_email", merged.SpamReportEmail),
		zap.String("version", merged.Version))
	return merged, nil
}

// overlayRemote copies the non-empty remote values onto the local config
func overlayRemote(local core.ReportConfig, remote *ports.RemoteConfig) core.ReportConfig {
	if remote == nil {
		return local
	}
	if remote.InfosecEmail != "" {
		local.InfosecEmail = remote.InfosecEmail
	}
	if remote.SpamReportEmail != "" {
		local.SpamReportEmail = remote.SpamReportEmail
	}
	if remote.SupportEmail != "" {
		local.SupportEmail = remote.SupportEmail
	}
	if remote.GophishURL != "" {
		local.BaseURL = remote.GophishURL
	}
	if remote.Version != "" {
		local.Version = remote.Version
	}
	return local
}

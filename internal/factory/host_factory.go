package factory

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/adapters/composer"
	"github.com/mikey/sentinel-report/internal/adapters/mailbox"
	"github.com/mikey/sentinel-report/internal/adapters/notify"
	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

// HostFactory creates the mail host adapters based on configuration
type HostFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewHostFactory creates a new host factory
func NewHostFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *HostFactory {
	return &HostFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateMailbox creates the mailbox host selected by host.mailbox
func (f *HostFactory) CreateMailbox() (core.Mailbox, error) {
	host := f.cfg.GetHost()

	switch host.Mailbox {
	case "eml":
		path := f.cfg.GetEMLPath()
		if path == "" {
			return nil, fmt.Errorf("eml.path is required for the eml mailbox")
		}
		mb, err := mailbox.NewEMLMailbox(path, host.User, f.textProcessor, f.logger)
		if err != nil {
			return nil, err
		}
		return mb, nil
	case "imap":
		imapCfg := f.cfg.GetIMAP()
		return mailbox.NewIMAPMailbox(
			imapCfg.Address,
			imapCfg.Username,
			imapCfg.Password,
			imapCfg.TLS,
			imapCfg.Mailbox,
			imapCfg.UID,
			host.User,
			f.textProcessor,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported mailbox type: %s", host.Mailbox)
	}
}

// CreateComposer creates the composer selected by host.composer
func (f *HostFactory) CreateComposer() (core.Composer, error) {
	host := f.cfg.GetHost()

	switch host.Composer {
	case "draft":
		return composer.NewDraftComposer(f.cfg.GetDraftDir(), f.logger), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return composer.NewSMTPComposer(
			smtpCfg.Address,
			smtpCfg.Username,
			smtpCfg.Password,
			smtpCfg.From,
			smtpCfg.Helo,
			smtpCfg.StartTLS,
			f.logger,
		), nil
	case "none":
		return composer.NewUnsupportedComposer(), nil
	default:
		return nil, fmt.Errorf("unsupported composer type: %s", host.Composer)
	}
}

// CreateNotifier creates the console notifier
func (f *HostFactory) CreateNotifier() core.Notifier {
	return notify.NewConsoleNotifier(os.Stdout, f.textProcessor, f.logger)
}

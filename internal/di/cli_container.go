package di

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/factory"
	"github.com/mikey/sentinel-report/internal/logging"
	"github.com/mikey/sentinel-report/internal/utils"
)

const (
	defaultComposer = "draft"
	defaultDraftDir = "./drafts"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Report flags
	ReportType string
	InputFile  string

	// Host flags
	Composer  string
	DraftDir  string
	UserName  string
	UserEmail string

	// Report configuration flags
	Marker       string
	InfosecEmail string
	SpamEmail    string
	Timeout      time.Duration

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string

	// passed holds the names of flags given on the command line
	passed map[string]bool
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := registerFlags(flag.CommandLine)
	flag.Parse()
	flags.recordPassed(flag.CommandLine)
	return flags
}

// recordPassed remembers which flags fs saw on the command line
func (f *CLIFlags) recordPassed(fs *flag.FlagSet) {
	f.passed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.passed[fl.Name] = true })
}

// overrides reports whether a flag value should replace the configured one:
// it was passed explicitly, or differs from the flag default
func (f *CLIFlags) overrides(name, value, def string) bool {
	return f.passed[name] || value != def
}

// registerFlags binds the CLI flags to fs
func registerFlags(fs *flag.FlagSet) *CLIFlags {
	flags := &CLIFlags{}

	// Report flags
	fs.StringVar(&flags.ReportType, "type", string(core.ReportPhishing), "Report type (Phishing, Spam, Legitimate)")
	fs.StringVar(&flags.InputFile, "file", "", "Message file (.eml) to report")

	// Host flags
	fs.StringVar(&flags.Composer, "composer", defaultComposer, "Reply composer (draft, smtp, none)")
	fs.StringVar(&flags.DraftDir, "draft-dir", defaultDraftDir, "Directory for report drafts")
	fs.StringVar(&flags.UserName, "user-name", "", "Display name of the reporting user")
	fs.StringVar(&flags.UserEmail, "user-email", "", "Email address of the reporting user")

	// Report configuration flags
	fs.StringVar(&flags.Marker, "marker", core.DefaultMarkerHeader, "Header marking simulated phishing")
	fs.StringVar(&flags.InfosecEmail, "infosec", core.DefaultInfosecEmail, "Phishing report recipient")
	fs.StringVar(&flags.SpamEmail, "spam", core.DefaultSpamReportEmail, "Spam report recipient")
	fs.DurationVar(&flags.Timeout, "timeout", core.DefaultHostTimeout, "Timeout for each host call")

	// Output flags
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			if flags.InputFile != "" {
				cfg.GetViper().Set("host.mailbox", "eml")
				cfg.GetViper().Set("eml.path", flags.InputFile)
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewHostFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReportConfigFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register host adapters
	if err := container.Provide(func(f *factory.HostFactory) (core.Mailbox, error) {
		return f.CreateMailbox()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.HostFactory) (core.Composer, error) {
		return f.CreateComposer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.HostFactory) core.Notifier {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register report configuration, with the remote overlay when configured
	if err := container.Provide(func(f *factory.ReportConfigFactory) (core.ReportConfig, error) {
		return f.CreateReportConfig(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register report service
	if err := container.Provide(core.NewReportService); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags layers the command line flags over defaults, .env and
// the environment. Flags left at their defaults do not mask the environment.
func createConfigFromFlags(flags *CLIFlags) (*config.Config, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}
	v := cfg.GetViper()

	// Host selection
	v.Set("host.mailbox", "eml")
	v.Set("eml.path", flags.InputFile)

	settings := []struct {
		flag, key, value, def string
	}{
		{"composer", "host.composer", flags.Composer, defaultComposer},
		{"draft-dir", "draft.dir", flags.DraftDir, defaultDraftDir},
		{"user-name", "host.user.display_name", flags.UserName, ""},
		{"user-email", "host.user.email", flags.UserEmail, ""},

		// Report configuration
		{"marker", "report.marker_header", flags.Marker, core.DefaultMarkerHeader},
		{"infosec", "report.infosec_email", flags.InfosecEmail, core.DefaultInfosecEmail},
		{"spam", "report.spam_report_email", flags.SpamEmail, core.DefaultSpamReportEmail},
		{"timeout", "report.host_timeout", flags.Timeout.String(), core.DefaultHostTimeout.String()},
	}
	for _, s := range settings {
		if flags.overrides(s.flag, s.value, s.def) {
			v.Set(s.key, s.value)
		}
	}

	return cfg, nil
}

// ParseReportType validates the -type flag
func (f *CLIFlags) ParseReportType() (core.ReportType, error) {
	rt, err := core.ParseReportType(f.ReportType)
	if err != nil {
		return "", fmt.Errorf("invalid -type: %w", err)
	}
	return rt, nil
}

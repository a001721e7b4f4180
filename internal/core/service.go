package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReportService runs the report pipeline against a mail host
type ReportService struct {
	mailbox  Mailbox
	composer Composer
	notifier Notifier
	cfg      ReportConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new report service. Empty configuration fields
// take their defaults.
func NewReportService(
	mailbox Mailbox,
	composer Composer,
	notifier Notifier,
	cfg ReportConfig,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		mailbox:  mailbox,
		composer: composer,
		notifier: notifier,
		cfg:      cfg.WithDefaults(),
		logger:   logger,
		now:      defaultNow,
	}
}

// Config returns the configuration the service runs with
func (s *ReportService) Config() ReportConfig {
	return s.cfg
}

// ReportPhishing reports the open message as phishing
func (s *ReportService) ReportPhishing(ctx context.Context) DeliveryOutcome {
	return s.Report(ctx, ReportPhishing)
}

// ReportSpam reports the open message as spam
func (s *ReportService) ReportSpam(ctx context.Context) DeliveryOutcome {
	return s.Report(ctx, ReportSpam)
}

// ReportLegitimate reports the open message as legitimate
func (s *ReportService) ReportLegitimate(ctx context.Context) DeliveryOutcome {
	return s.Report(ctx, ReportLegitimate)
}

// Report runs one report of the given type. It never panics; failures are
// logged, shown to the user when the host is ready, and returned in the outcome.
func (s *ReportService) Report(ctx context.Context, reportType ReportType) DeliveryOutcome {
	outcome := DeliveryOutcome{ReportType: reportType, Stage: StageIdle}

	s.logger.Info("Reporting email", zap.String("report_type", string(reportType)))

	err := s.run(ctx, reportType, &outcome)
	if err == nil {
		outcome.Success = true
		return outcome
	}

	outcome.Stage = StageFailed
	outcome.Err = err
	s.logger.Error("Report failed",
		zap.String("run_id", outcome.RunID),
		zap.String("report_type", string(reportType)),
		zap.Error(err))

	if s.hostReady(ctx) {
		s.notify(ctx, Notice{
			Key:        noticeKeyError,
			Type:       NoticeError,
			Title:      "Error",
			Message:    fmt.Sprintf("An error occurred: %v", err),
			Persistent: true,
		})
	}
	return outcome
}

func (s *ReportService) run(ctx context.Context, reportType ReportType, outcome *DeliveryOutcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report %s panicked in stage %s: %v", reportType, outcome.Stage, r)
		}
	}()

	switch reportType {
	case ReportPhishing, ReportSpam, ReportLegitimate:
	default:
		return fmt.Errorf("unsupported report type: %q", reportType)
	}

	s.transition(outcome, StageInspecting)
	snap, item, headersOK, err := s.inspect(ctx, reportType)
	if err != nil {
		return err
	}
	outcome.RunID = snap.RunID

	s.transition(outcome, StageClassifying)
	if headersOK {
		s.classify(snap)
	}

	s.transition(outcome, StageFormatting)
	doc := FormatReport(*snap, reportType, s.cfg.Footer)

	s.transition(outcome, StageDispatching)
	s.dispatch(ctx, snap, doc, outcome)

	if reportType.MarksOriginal() {
		s.transition(outcome, StageMarking)
		if err := s.markOriginal(ctx, snap, item); err != nil {
			s.logger.Warn("Failed to mark original email",
				zap.String("run_id", snap.RunID),
				zap.Error(err))
		}
	}

	message := SuccessMessage(reportType)
	s.notify(ctx, Notice{
		Key:        noticeKeyReport,
		Type:       NoticeInformational,
		Message:    message,
		Persistent: true,
	})
	outcome.Notice = message
	s.transition(outcome, StageNotified)

	return nil
}

func (s *ReportService) transition(outcome *DeliveryOutcome, next Stage) {
	s.logger.Debug("Report stage",
		zap.String("run_id", outcome.RunID),
		zap.Stringer("from", outcome.Stage),
		zap.Stringer("to", next))
	outcome.Stage = next
}

func (s *ReportService) hostReady(ctx context.Context) bool {
	ready, err := callHost(ctx, s.cfg.HostTimeout, "ready", func(ctx context.Context) (bool, error) {
		return s.mailbox.Ready(ctx), nil
	})
	return err == nil && ready
}

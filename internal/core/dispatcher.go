package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	noticeKeyReport  = "reportNotification"
	noticeKeyError   = "errorNotification"
	noticeKeyWarning = "warningNotification"
	noticeKeyInfo    = "infoNotification"
)

var upper = cases.Upper(language.Und)

// RecipientFor selects the report address for a report type. Spam goes to the
// spam-report address; everything else goes to security operations.
func RecipientFor(cfg ReportConfig, reportType ReportType) string {
	if reportType == ReportSpam {
		return cfg.SpamReportEmail
	}
	return cfg.InfosecEmail
}

// ReportSubject builds the subject line of a report
func ReportSubject(reportType ReportType, originalSubject string) string {
	return fmt.Sprintf("[SENTINEL-%s] %s", upper.String(string(reportType)), originalSubject)
}

// SuccessMessage returns the final notice text for a report type
func SuccessMessage(reportType ReportType) string {
	switch reportType {
	case ReportPhishing:
		return "Good job! You have reported a phishing email to the Information Security Team."
	case ReportSpam:
		return "Thank you! You have reported this email as spam."
	case ReportLegitimate:
		return "Thank you for the feedback! You have reported this email as legitimate."
	default:
		return ""
	}
}

// dispatch opens the report reply. A host that cannot compose gets the
// manual fallback notice instead; that is not a failure of the run.
func (s *ReportService) dispatch(ctx context.Context, snap *MessageSnapshot, doc ReportDocument, outcome *DeliveryOutcome) {
	recipient := RecipientFor(s.cfg, snap.ReportType)
	subject := ReportSubject(snap.ReportType, snap.Subject)
	outcome.Recipient = recipient
	outcome.Subject = subject

	draft := ReplyDraft{
		To:        Recipient{Address: recipient},
		Subject:   subject,
		HTMLBody:  doc,
		InReplyTo: snap.MessageID,
		From:      snap.User,
	}

	result, err := callHost(ctx, s.cfg.HostTimeout, "reply", func(ctx context.Context) (ReplyResult, error) {
		return s.composer.Reply(ctx, draft)
	})
	if err != nil {
		s.logger.Warn("Reply composition failed, asking user to send manually",
			zap.String("run_id", snap.RunID),
			zap.String("recipient", recipient),
			zap.Error(err))
		s.notify(ctx, Notice{
			Key:        noticeKeyWarning,
			Type:       NoticeInformational,
			Title:      "Send Report Manually",
			Message:    fmt.Sprintf("Please send the report to %s with subject: %s", recipient, subject),
			Persistent: true,
		})
		return
	}

	outcome.Delivered = result.Delivered
	s.logger.Info("Report reply composed",
		zap.String("run_id", snap.RunID),
		zap.String("recipient", recipient),
		zap.Bool("delivered", result.Delivered),
		zap.String("location", result.Location))

	if result.Delivered {
		s.notify(ctx, Notice{
			Key:        noticeKeyInfo,
			Type:       NoticeInformational,
			Title:      "Report Sent",
			Message:    "The report email was sent to " + recipient,
			Persistent: true,
		})
		return
	}
	s.notify(ctx, Notice{
		Key:        noticeKeyInfo,
		Type:       NoticeInformational,
		Title:      "Report Ready",
		Message:    "The report email is ready for review. Please send it to " + recipient,
		Persistent: true,
	})
}

// markOriginal sets the original message read and labels it as reported.
// Both steps are attempted; a failure in one does not skip the other.
func (s *ReportService) markOriginal(ctx context.Context, snap *MessageSnapshot, item MessageItem) error {
	var errs []error
	if err := callHostErr(ctx, s.cfg.HostTimeout, "set read", func(ctx context.Context) error {
		return item.SetRead(ctx, true)
	}); err != nil {
		errs = append(errs, fmt.Errorf("failed to mark message read: %w", err))
	}

	if !slices.Contains(snap.Categories, s.cfg.ReportedCategory) {
		if err := callHostErr(ctx, s.cfg.HostTimeout, "add category", func(ctx context.Context) error {
			return item.AddCategory(ctx, s.cfg.ReportedCategory)
		}); err != nil {
			errs = append(errs, fmt.Errorf("failed to add category %q: %w", s.cfg.ReportedCategory, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.notify(ctx, Notice{
		Key:        noticeKeyInfo,
		Type:       NoticeInformational,
		Title:      "Email Marked",
		Message:    "Email has been marked as reported. You can manually delete it.",
		Persistent: true,
	})
	return nil
}

// notify shows a notice. Display failures are logged only.
func (s *ReportService) notify(ctx context.Context, notice Notice) {
	if err := callHostErr(ctx, s.cfg.HostTimeout, "notify", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, notice)
	}); err != nil {
		s.logger.Error("Failed to show notification",
			zap.String("key", notice.Key),
			zap.Error(err))
	}
}

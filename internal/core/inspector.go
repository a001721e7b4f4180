package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// inspect captures the snapshot of the open message. Content type and body
// failures are fatal. Header failures are not: the snapshot carries
// HeadersUnavailable and headersOK is false.
func (s *ReportService) inspect(ctx context.Context, reportType ReportType) (snap *MessageSnapshot, item MessageItem, headersOK bool, err error) {
	item, err = callHost(ctx, s.cfg.HostTimeout, "current item", s.mailbox.CurrentItem)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to access current item: %w", err)
	}
	if item == nil {
		return nil, nil, false, ErrNoItem
	}

	bodyType, err := callHost(ctx, s.cfg.HostTimeout, "body type", item.BodyType)
	if err != nil {
		return nil, nil, false, &BodyTypeError{Err: err}
	}

	body, err := callHost(ctx, s.cfg.HostTimeout, "body", func(ctx context.Context) (string, error) {
		return item.Body(ctx, bodyType)
	})
	if err != nil {
		return nil, nil, false, &BodyRetrievalError{Err: err}
	}

	meta := item.Metadata()
	snap = &MessageSnapshot{
		RunID:           uuid.NewString(),
		ReportType:      reportType,
		MessageID:       meta.MessageID,
		Subject:         meta.Subject,
		From:            meta.From.Address,
		Sender:          meta.From,
		To:              meta.To,
		CC:              meta.CC,
		BCC:             meta.BCC,
		Body:            body,
		BodyType:        bodyType,
		AttachmentCount: meta.AttachmentCount,
		IsRead:          meta.IsRead,
		Categories:      meta.Categories,
		Timestamp:       s.now().UTC(),
		User:            s.mailbox.UserProfile(),
	}

	headers, err := callHost(ctx, s.cfg.HostTimeout, "headers", item.Headers)
	if err != nil {
		s.logger.Warn("Failed to retrieve headers, continuing without them",
			zap.String("run_id", snap.RunID),
			zap.Error(err))
		snap.Headers = HeadersUnavailable
		return snap, item, false, nil
	}
	snap.Headers = headers

	return snap, item, true, nil
}

func defaultNow() time.Time { return time.Now() }

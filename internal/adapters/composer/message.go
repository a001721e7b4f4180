package composer

import (
	"bytes"
	"fmt"
	"net/mail"
	"time"

	gomail "github.com/emersion/go-message/mail"

	"github.com/mikey/sentinel-report/internal/core"
)

// buildMessage renders a report draft as a single-part HTML message
func buildMessage(draft core.ReplyDraft, from string, date time.Time) ([]byte, error) {
	if draft.To.Address == "" {
		return nil, fmt.Errorf("report recipient is required")
	}

	var h gomail.Header
	h.SetDate(date)
	h.SetSubject(draft.Subject)
	h.SetAddressList("To", []*gomail.Address{{Name: draft.To.Name, Address: draft.To.Address}})
	if from != "" {
		h.SetAddressList("From", []*gomail.Address{{Name: draft.From.DisplayName, Address: from}})
	}
	if draft.InReplyTo != "" {
		h.Set("In-Reply-To", draft.InReplyTo)
		h.Set("References", draft.InReplyTo)
	}
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := w.Write([]byte(draft.HTMLBody)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write report body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// senderAddress picks the envelope sender: the configured address, or the reporting user
func senderAddress(configured string, user core.UserInfo) (string, error) {
	addr := configured
	if addr == "" {
		addr = user.Email
	}
	if addr == "" {
		return "", fmt.Errorf("no sender address configured")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return "", fmt.Errorf("invalid sender address %q: %w", addr, err)
	}
	return addr, nil
}

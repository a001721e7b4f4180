package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

// ParsedMessage is an RFC 5322 message decoded into the fields the report pipeline reads
type ParsedMessage struct {
	Metadata core.ItemMetadata
	Headers  string
	TextBody string
	HTMLBody string
}

// BodyType returns html when the message has an HTML part and text otherwise
func (p *ParsedMessage) BodyType() core.BodyType {
	if p.HTMLBody != "" {
		return core.BodyTypeHTML
	}
	return core.BodyTypeText
}

// Body returns the body in the requested content type
func (p *ParsedMessage) Body(bodyType core.BodyType) (string, error) {
	switch bodyType {
	case core.BodyTypeHTML:
		if p.HTMLBody == "" {
			return "", fmt.Errorf("message has no html body")
		}
		return p.HTMLBody, nil
	case core.BodyTypeText:
		return p.TextBody, nil
	default:
		return "", fmt.Errorf("unsupported body type: %s", bodyType)
	}
}

// ParseMessage decodes a raw message with go-message. Parts in unknown
// charsets are kept undecoded.
func ParseMessage(raw []byte, tp *utils.TextProcessor) (*ParsedMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer mr.Close()

	parsed := &ParsedMessage{
		Headers:  tp.HeaderBlock(raw),
		Metadata: metadataFromHeader(mr.Header, tp),
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read message part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s part: %w", contentType, err)
			}
			switch {
			case strings.HasPrefix(contentType, "text/html") && parsed.HTMLBody == "":
				parsed.HTMLBody = tp.SanitizeUTF8(string(body))
			case (contentType == "" || strings.HasPrefix(contentType, "text/plain")) && parsed.TextBody == "":
				parsed.TextBody = tp.SanitizeUTF8(string(body))
			}
		case *mail.AttachmentHeader:
			parsed.Metadata.AttachmentCount++
		}
	}

	return parsed, nil
}

func metadataFromHeader(h mail.Header, tp *utils.TextProcessor) core.ItemMetadata {
	meta := core.ItemMetadata{}

	if subject, err := h.Subject(); err == nil {
		meta.Subject = tp.SanitizeUTF8(subject)
	} else {
		meta.Subject = tp.SanitizeUTF8(h.Get("Subject"))
	}
	if id, err := h.MessageID(); err == nil && id != "" {
		meta.MessageID = "<" + id + ">"
	}
	if from := addressList(h, "From"); len(from) > 0 {
		meta.From = from[0]
	}
	meta.To = addressList(h, "To")
	meta.CC = addressList(h, "Cc")
	meta.BCC = addressList(h, "Bcc")

	if keywords := h.Get("Keywords"); keywords != "" {
		for _, k := range strings.Split(keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				meta.Categories = append(meta.Categories, k)
			}
		}
	}

	return meta
}

func addressList(h mail.Header, key string) []core.Recipient {
	addrs, err := h.AddressList(key)
	if err != nil {
		if raw := strings.TrimSpace(h.Get(key)); raw != "" {
			return []core.Recipient{{Address: raw}}
		}
		return nil
	}

	recipients := make([]core.Recipient, 0, len(addrs))
	for _, a := range addrs {
		recipients = append(recipients, core.Recipient{Name: a.Name, Address: a.Address})
	}
	return recipients
}

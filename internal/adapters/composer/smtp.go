package composer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
)

const (
	dialTimeout    = 10 * time.Second
	sessionTimeout = 30 * time.Second
)

// SMTPComposer submits the report reply directly to a submission server
type SMTPComposer struct {
	address  string
	username string
	password string
	from     string
	helo     string
	startTLS bool

	// tlsConfig overrides the STARTTLS client config; nil verifies against the system roots
	tlsConfig *tls.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewSMTPComposer creates a new SMTP composer
func NewSMTPComposer(address, username, password, from, helo string, startTLS bool, logger *zap.Logger) *SMTPComposer {
	return &SMTPComposer{
		address:  address,
		username: username,
		password: password,
		from:     from,
		helo:     helo,
		startTLS: startTLS,
		logger:   logger,
		now:      time.Now,
	}
}

// Reply sends the report and reports it as delivered
func (c *SMTPComposer) Reply(ctx context.Context, draft core.ReplyDraft) (core.ReplyResult, error) {
	sender, err := senderAddress(c.from, draft.From)
	if err != nil {
		return core.ReplyResult{}, err
	}

	data, err := buildMessage(draft, sender, c.now())
	if err != nil {
		return core.ReplyResult{}, err
	}

	if err := c.send(ctx, sender, draft.To.Address, data); err != nil {
		return core.ReplyResult{}, err
	}

	c.logger.Info("Report sent",
		zap.String("server", c.address),
		zap.String("to", draft.To.Address),
		zap.String("subject", draft.Subject))

	return core.ReplyResult{Delivered: true, Location: c.address}, nil
}

func (c *SMTPComposer) send(ctx context.Context, sender, recipient string, data []byte) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.address, err)
	}

	deadline := time.Now().Add(sessionTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	// The pre-TLS greeting uses the library default name; after the upgrade
	// the session restarts and EHLO is sent with ours
	var client *smtp.Client
	if c.startTLS {
		client, err = smtp.NewClientStartTLS(conn, c.clientTLSConfig())
		if err != nil {
			return fmt.Errorf("STARTTLS failed with %s: %w", c.address, err)
		}
	} else {
		client = smtp.NewClient(conn)
	}
	defer client.Close()

	helo := c.helo
	if helo == "" {
		if helo, err = os.Hostname(); err != nil {
			helo = "localhost"
		}
	}
	if err := client.Hello(helo); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if c.username != "" {
		if err := client.Auth(sasl.NewPlainClient("", c.username, c.password)); err != nil {
			return fmt.Errorf("authentication failed for %s: %w", c.username, err)
		}
	}

	if err := client.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(recipient, nil); err != nil {
		return fmt.Errorf("RCPT TO failed for %s: %w", recipient, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send report data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		// The report has been accepted at this point
		c.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

func (c *SMTPComposer) clientTLSConfig() *tls.Config {
	if c.tlsConfig != nil {
		return c.tlsConfig.Clone()
	}
	host, _, err := net.SplitHostPort(c.address)
	if err != nil {
		host = c.address
	}
	return &tls.Config{ServerName: host}
}

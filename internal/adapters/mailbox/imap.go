package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

// IMAPMailbox serves one message, selected by UID, from an IMAP folder.
// Marking stores \Seen and a keyword flag on the server.
type IMAPMailbox struct {
	address  string
	username string
	password string
	tls      bool
	folder   string
	uid      imap.UID
	user     core.UserInfo
	tp       *utils.TextProcessor
	logger   *zap.Logger

	// tlsConfig overrides the client TLS config; nil verifies against the system roots
	tlsConfig *tls.Config
}

// NewIMAPMailbox creates a new IMAP mailbox host
func NewIMAPMailbox(
	address, username, password string,
	useTLS bool,
	folder string,
	uid uint32,
	user core.UserInfo,
	tp *utils.TextProcessor,
	logger *zap.Logger,
) *IMAPMailbox {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPMailbox{
		address:  address,
		username: username,
		password: password,
		tls:      useTLS,
		folder:   folder,
		uid:      imap.UID(uid),
		user:     user,
		tp:       tp,
		logger:   logger,
	}
}

// connect dials, logs in and selects the folder. The caller must log out.
func (m *IMAPMailbox) connect(ctx context.Context) (*imapclient.Client, error) {
	var client *imapclient.Client
	var err error

	options := &imapclient.Options{TLSConfig: m.tlsConfig}
	if m.tls {
		client, err = imapclient.DialTLS(m.address, options)
	} else {
		client, err = imapclient.DialStartTLS(m.address, options)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", m.address, err)
	}

	// Unblock pending commands when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	if err := client.Login(m.username, m.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", m.username, err)
	}

	if _, err := client.Select(m.folder, nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", m.folder, err)
	}

	return client, nil
}

// Ready reports whether the server accepts our credentials
func (m *IMAPMailbox) Ready(ctx context.Context) bool {
	client, err := m.connect(ctx)
	if err != nil {
		m.logger.Debug("IMAP host not ready", zap.Error(err))
		return false
	}
	_ = client.Logout().Wait()
	return true
}

// UserProfile returns the reporting user. The IMAP login is used when no
// address is configured.
func (m *IMAPMailbox) UserProfile() core.UserInfo {
	user := m.user
	if user.Email == "" && strings.Contains(m.username, "@") {
		user.Email = m.username
	}
	return user
}

// CurrentItem fetches the configured message without setting \Seen
func (m *IMAPMailbox) CurrentItem(ctx context.Context) (core.MessageItem, error) {
	if m.uid == 0 {
		return nil, core.ErrNoItem
	}

	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(m.uid), &imap.FetchOptions{
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found in %s: %w", m.uid, m.folder, core.ErrNoItem)
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("closing fetch: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, fmt.Errorf("message UID %d has no body", m.uid)
	}

	parsed, err := ParseMessage(raw, m.tp)
	if err != nil {
		return nil, err
	}
	for _, flag := range buf.Flags {
		switch {
		case flag == imap.FlagSeen:
			parsed.Metadata.IsRead = true
		case !strings.HasPrefix(string(flag), `\`):
			parsed.Metadata.Categories = append(parsed.Metadata.Categories, string(flag))
		}
	}

	m.logger.Debug("Fetched message",
		zap.Uint32("uid", uint32(m.uid)),
		zap.String("folder", m.folder),
		zap.String("subject", parsed.Metadata.Subject))

	return &imapItem{mailbox: m, parsed: parsed}, nil
}

// storeFlags adds or removes flags on the configured message
func (m *IMAPMailbox) storeFlags(ctx context.Context, flags []imap.Flag, add bool) error {
	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	op := imap.StoreFlagsAdd
	if !add {
		op = imap.StoreFlagsDel
	}

	storeCmd := client.Store(imap.UIDSetNum(m.uid), &imap.StoreFlags{
		Op:     op,
		Silent: true,
		Flags:  flags,
	}, nil)

	return storeCmd.Close()
}

type imapItem struct {
	mailbox *IMAPMailbox
	parsed  *ParsedMessage
}

func (i *imapItem) Metadata() core.ItemMetadata {
	return i.parsed.Metadata
}

func (i *imapItem) BodyType(ctx context.Context) (core.BodyType, error) {
	return i.parsed.BodyType(), nil
}

func (i *imapItem) Body(ctx context.Context, bodyType core.BodyType) (string, error) {
	return i.parsed.Body(bodyType)
}

func (i *imapItem) Headers(ctx context.Context) (string, error) {
	if i.parsed.Headers == "" {
		return "", fmt.Errorf("message UID %d has no headers", i.mailbox.uid)
	}
	return i.parsed.Headers, nil
}

func (i *imapItem) SetRead(ctx context.Context, read bool) error {
	if err := i.mailbox.storeFlags(ctx, []imap.Flag{imap.FlagSeen}, read); err != nil {
		return fmt.Errorf("storing \\Seen: %w", err)
	}
	return nil
}

// AddCategory stores the category as an IMAP keyword
func (i *imapItem) AddCategory(ctx context.Context, category string) error {
	keyword := strings.Join(strings.Fields(category), "_")
	if keyword == "" {
		return fmt.Errorf("empty category")
	}
	if err := i.mailbox.storeFlags(ctx, []imap.Flag{imap.Flag(keyword)}, true); err != nil {
		return fmt.Errorf("storing keyword %s: %w", keyword, err)
	}
	return nil
}

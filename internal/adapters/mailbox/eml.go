package mailbox

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

// EMLMailbox serves a single message read from an RFC 5322 file. Read and
// category changes only live for the lifetime of the mailbox.
type EMLMailbox struct {
	path   string
	user   core.UserInfo
	item   *emlItem
	logger *zap.Logger
}

// NewEMLMailbox parses the message at path
func NewEMLMailbox(path string, user core.UserInfo, tp *utils.TextProcessor, logger *zap.Logger) (*EMLMailbox, error) {
	if path == "" {
		return nil, fmt.Errorf("eml path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return NewEMLMailboxFromBytes(path, raw, user, tp, logger)
}

// NewEMLMailboxFromBytes parses a raw message. name is used in logs only.
func NewEMLMailboxFromBytes(name string, raw []byte, user core.UserInfo, tp *utils.TextProcessor, logger *zap.Logger) (*EMLMailbox, error) {
	parsed, err := ParseMessage(raw, tp)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded message",
		zap.String("file", name),
		zap.String("subject", parsed.Metadata.Subject),
		zap.Int("attachments", parsed.Metadata.AttachmentCount))

	return &EMLMailbox{
		path:   name,
		user:   user,
		item:   &emlItem{parsed: parsed, logger: logger, path: name},
		logger: logger,
	}, nil
}

// Ready is always true once the file has been parsed
func (m *EMLMailbox) Ready(ctx context.Context) bool {
	return m.item != nil
}

// UserProfile returns the configured reporting user
func (m *EMLMailbox) UserProfile() core.UserInfo {
	return m.user
}

// CurrentItem returns the parsed message
func (m *EMLMailbox) CurrentItem(ctx context.Context) (core.MessageItem, error) {
	if m.item == nil {
		return nil, core.ErrNoItem
	}
	return m.item, nil
}

type emlItem struct {
	path   string
	parsed *ParsedMessage
	logger *zap.Logger

	mu sync.Mutex
}

func (i *emlItem) Metadata() core.ItemMetadata {
	i.mu.Lock()
	defer i.mu.Unlock()
	meta := i.parsed.Metadata
	meta.Categories = slices.Clone(meta.Categories)
	return meta
}

func (i *emlItem) BodyType(ctx context.Context) (core.BodyType, error) {
	return i.parsed.BodyType(), nil
}

func (i *emlItem) Body(ctx context.Context, bodyType core.BodyType) (string, error) {
	return i.parsed.Body(bodyType)
}

func (i *emlItem) Headers(ctx context.Context) (string, error) {
	if i.parsed.Headers == "" {
		return "", fmt.Errorf("message has no headers")
	}
	return i.parsed.Headers, nil
}

func (i *emlItem) SetRead(ctx context.Context, read bool) error {
	i.mu.Lock()
	i.parsed.Metadata.IsRead = read
	i.mu.Unlock()
	i.logger.Debug("Marked message", zap.String("file", i.path), zap.Bool("read", read))
	return nil
}

func (i *emlItem) AddCategory(ctx context.Context, category string) error {
	i.mu.Lock()
	i.parsed.Metadata.Categories = append(i.parsed.Metadata.Categories, category)
	i.mu.Unlock()
	i.logger.Debug("Added category", zap.String("file", i.path), zap.String("category", category))
	return nil
}

package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
)

// DraftComposer writes the report reply as an .eml file for the user to review and send
type DraftComposer struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftComposer creates a new draft composer writing into dir
func NewDraftComposer(dir string, logger *zap.Logger) *DraftComposer {
	if dir == "" {
		dir = "."
	}
	return &DraftComposer{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Reply saves the draft. The result is never delivered.
func (c *DraftComposer) Reply(ctx context.Context, draft core.ReplyDraft) (core.ReplyResult, error) {
	if err := ctx.Err(); err != nil {
		return core.ReplyResult{}, err
	}

	data, err := buildMessage(draft, draft.From.Email, c.now())
	if err != nil {
		return core.ReplyResult{}, err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return core.ReplyResult{}, fmt.Errorf("failed to create draft directory: %w", err)
	}

	path := filepath.Join(c.dir, uuid.NewString()+"-report.eml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return core.ReplyResult{}, fmt.Errorf("failed to write draft: %w", err)
	}

	c.logger.Info("Report draft written",
		zap.String("path", path),
		zap.String("to", draft.To.Address),
		zap.String("subject", draft.Subject))

	return core.ReplyResult{Delivered: false, Location: path}, nil
}

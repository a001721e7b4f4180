package composer

import (
	"context"

	"github.com/mikey/sentinel-report/internal/core"
)

// UnsupportedComposer is used when the host cannot open reply forms.
// The report flow falls back to manual sending instructions.
type UnsupportedComposer struct{}

// NewUnsupportedComposer creates a composer that always refuses
func NewUnsupportedComposer() *UnsupportedComposer {
	return &UnsupportedComposer{}
}

func (UnsupportedComposer) Reply(ctx context.Context, draft core.ReplyDraft) (core.ReplyResult, error) {
	return core.ReplyResult{}, core.ErrReplyUnsupported
}

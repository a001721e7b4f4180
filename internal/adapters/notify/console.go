package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

// maxMessageSize bounds the notice text
const maxMessageSize = 1024

// ConsoleNotifier prints notices to a terminal. A notice replaces any earlier
// notice with the same key.
type ConsoleNotifier struct {
	out    io.Writer
	tp     *utils.TextProcessor
	logger *zap.Logger

	mu      sync.Mutex
	notices map[string]core.Notice
	order   []string
}

// NewConsoleNotifier creates a new console notifier
func NewConsoleNotifier(out io.Writer, tp *utils.TextProcessor, logger *zap.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:     out,
		tp:      tp,
		logger:  logger,
		notices: make(map[string]core.Notice),
	}
}

// Notify prints the notice and records it under its key
func (n *ConsoleNotifier) Notify(ctx context.Context, notice core.Notice) error {
	if notice.Key == "" {
		return fmt.Errorf("notice key is required")
	}
	message := n.tp.Truncate(notice.Message, maxMessageSize)

	n.mu.Lock()
	if _, ok := n.notices[notice.Key]; !ok {
		n.order = append(n.order, notice.Key)
	}
	n.notices[notice.Key] = notice
	n.mu.Unlock()

	n.logger.Debug("Showing notification",
		zap.String("key", notice.Key),
		zap.String("type", string(notice.Type)))

	var err error
	if notice.Title != "" {
		_, err = fmt.Fprintf(n.out, "[%s] %s: %s\n", notice.Type, notice.Title, message)
	} else {
		_, err = fmt.Fprintf(n.out, "[%s] %s\n", notice.Type, message)
	}
	if err != nil {
		return fmt.Errorf("failed to write notice: %w", err)
	}
	return nil
}

// Notices returns the notices currently shown, in the order their keys first appeared
func (n *ConsoleNotifier) Notices() []core.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]core.Notice, 0, len(n.order))
	for _, key := range n.order {
		out = append(out, n.notices[key])
	}
	return out
}

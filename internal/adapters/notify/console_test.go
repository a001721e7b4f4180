package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/utils"
)

func TestConsoleNotifier_ReplacesByKey(t *testing.T) {
	var out bytes.Buffer
	logger := zaptest.NewLogger(t)
	n := NewConsoleNotifier(&out, utils.NewTextProcessor(logger), logger)
	ctx := context.Background()

	notices := []core.Notice{
		{Key: "infoNotification", Type: core.NoticeInformational, Title: "Report Ready", Message: "first"},
		{Key: "reportNotification", Type: core.NoticeInformational, Message: "done"},
		{Key: "infoNotification", Type: core.NoticeInformational, Title: "Email Marked", Message: "second"},
	}
	for _, notice := range notices {
		if err := n.Notify(ctx, notice); err != nil {
			t.Fatal(err)
		}
	}

	shown := n.Notices()
	if len(shown) != 2 {
		t.Fatalf("expected 2 notices, got %+v", shown)
	}
	if shown[0].Key != "infoNotification" || shown[0].Message != "second" {
		t.Errorf("first notice = %+v", shown[0])
	}

	printed := out.String()
	if !strings.Contains(printed, "[Informational] Report Ready: first\n") {
		t.Errorf("output = %q", printed)
	}
	if !strings.Contains(printed, "[Informational] done\n") {
		t.Errorf("output = %q", printed)
	}
}

func TestConsoleNotifier_RequiresKey(t *testing.T) {
	logger := zaptest.NewLogger(t)
	n := NewConsoleNotifier(&bytes.Buffer{}, utils.NewTextProcessor(logger), logger)

	if err := n.Notify(context.Background(), core.Notice{Message: "x"}); err == nil {
		t.Fatal("expected error for notice without key")
	}
}

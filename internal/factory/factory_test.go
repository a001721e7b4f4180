package factory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mikey/sentinel-report/internal/adapters/cache"
	"github.com/mikey/sentinel-report/internal/adapters/mailbox"
	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/ports"
	"github.com/mikey/sentinel-report/internal/utils"
)

func newHostFactory(t *testing.T, settings map[string]any) *HostFactory {
	t.Helper()
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	logger := zaptest.NewLogger(t)
	return NewHostFactory(config.NewFromViper(v), logger, utils.NewTextProcessor(logger))
}

func TestHostFactory_CreateMailbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.eml")
	if err := os.WriteFile(path, []byte("Subject: hi\r\n\r\nbody\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	mb, err := newHostFactory(t, map[string]any{"eml.path": path}).CreateMailbox()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mb.(*mailbox.EMLMailbox); !ok {
		t.Fatalf("expected eml mailbox, got %T", mb)
	}

	mb, err = newHostFactory(t, map[string]any{"host.mailbox": "imap"}).CreateMailbox()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mb.(*mailbox.IMAPMailbox); !ok {
		t.Fatalf("expected imap mailbox, got %T", mb)
	}

	if _, err := newHostFactory(t, nil).CreateMailbox(); err == nil {
		t.Fatal("expected error without eml.path")
	}
	if _, err := newHostFactory(t, map[string]any{"host.mailbox": "pop3"}).CreateMailbox(); err == nil {
		t.Fatal("expected error for unsupported mailbox")
	}
}

func TestHostFactory_CreateComposer(t *testing.T) {
	tests := map[string]string{
		"draft": "*composer.DraftComposer",
		"smtp":  "*composer.SMTPComposer",
		"none":  "*composer.UnsupportedComposer",
	}
	for kind, want := range tests {
		t.Run(kind, func(t *testing.T) {
			c, err := newHostFactory(t, map[string]any{"host.composer": kind}).CreateComposer()
			if err != nil {
				t.Fatal(err)
			}
			if got := fmt.Sprintf("%T", c); got != want {
				t.Fatalf("got %s, want %s", got, want)
			}
		})
	}

	if _, err := newHostFactory(t, map[string]any{"host.composer": "fax"}).CreateComposer(); err == nil {
		t.Fatal("expected error for unsupported composer")
	}
}

func TestCacheFactory_CreateAssetCache(t *testing.T) {
	logger := zaptest.NewLogger(t)

	v := config.NewEmptyViper()
	c, err := NewCacheFactory(config.NewFromViper(v), logger).CreateAssetCache()
	if err != nil {
		t.Fatal(err)
	}
	mem, ok := c.(*cache.MemoryCache)
	if !ok {
		t.Fatalf("expected memory cache, got %T", c)
	}
	mem.Stop()

	v = config.NewEmptyViper()
	v.Set("cache.enabled", false)
	c, err = NewCacheFactory(config.NewFromViper(v), logger).CreateAssetCache()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NoopCache); !ok {
		t.Fatalf("expected noop cache, got %T", c)
	}
}

type stubSource struct {
	cfg *ports.RemoteConfig
	err error
}

func (s stubSource) Fetch(ctx context.Context) (*ports.RemoteConfig, error) {
	return s.cfg, s.err
}

func TestReportConfigFactory_Overlay(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := config.NewFromViper(config.NewEmptyViper())

	f := NewReportConfigFactory(cfg, logger).WithSource(stubSource{cfg: &ports.RemoteConfig{
		InfosecEmail: "sec@corp.example",
		GophishURL:   "https://phish.corp.example",
	}})
	got, err := f.CreateReportConfig(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.InfosecEmail != "sec@corp.example" || got.BaseURL != "https://phish.corp.example" {
		t.Errorf("remote values not applied: %+v", got)
	}
	if got.SpamReportEmail != "spam-report@company.com" {
		t.Errorf("empty remote value overrode local: %q", got.SpamReportEmail)
	}
}

func TestReportConfigFactory_FetchFailureKeepsLocal(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := config.NewFromViper(config.NewEmptyViper())

	f := NewReportConfigFactory(cfg, logger).WithSource(stubSource{err: errors.New("unreachable")})
	got, err := f.CreateReportConfig(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.InfosecEmail != "infosec@company.com" {
		t.Errorf("InfosecEmail = %q", got.InfosecEmail)
	}
}

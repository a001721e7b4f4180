package cache

import (
	"context"

	"github.com/mikey/sentinel-report/internal/ports"
)

// NoopCache never stores anything, so every asset is read from disk
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, path string) (*ports.AssetEntry, error) {
	return nil, ErrNotFound
}

func (NoopCache) Set(ctx context.Context, entry *ports.AssetEntry) error { return nil }

func (NoopCache) Delete(ctx context.Context, path string) error { return nil }

func (NoopCache) Cleanup(ctx context.Context) error { return nil }

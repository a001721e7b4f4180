package ports

import (
	"context"
	"time"
)

// AssetEntry is a cached static asset
type AssetEntry struct {
	Path        string
	Content     []byte
	ContentType string
	LoadedAt    time.Time
	ExpiresAt   time.Time
}

// AssetCache defines the interface for caching asset contents
type AssetCache interface {
	// Get retrieves a cached asset by path
	Get(ctx context.Context, path string) (*AssetEntry, error)

	// Set stores an asset
	Set(ctx context.Context, entry *AssetEntry) error

	// Delete removes an asset
	Delete(ctx context.Context, path string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

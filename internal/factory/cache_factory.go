package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/adapters/cache"
	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/ports"
)

// CacheFactory creates asset caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAssetCache creates an asset cache based on the configuration
func (f *CacheFactory) CreateAssetCache() (ports.AssetCache, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}

	if !cacheCfg.Enabled {
		f.logger.Info("Asset cache disabled")
		return cache.NoopCache{}, nil
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.TTL, cacheCfg.CleanupFrequency), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

package di

import (
	"go.uber.org/dig"

	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/factory"
	"github.com/mikey/sentinel-report/internal/logging"
	"github.com/mikey/sentinel-report/internal/ports"
	"github.com/mikey/sentinel-report/internal/server"
)

// BuildServerContainer creates and configures a dependency injection container
// for the asset/config server
func BuildServerContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register asset cache
	if err := container.Provide(func(f *factory.CacheFactory) (ports.AssetCache, error) {
		return f.CreateAssetCache()
	}); err != nil {
		return nil, err
	}

	// The server publishes its own local values, never a remote overlay
	if err := container.Provide(func(cfg *config.Config) (core.ReportConfig, error) {
		return cfg.GetReport()
	}); err != nil {
		return nil, err
	}

	// Register server configuration
	if err := container.Provide(func(cfg *config.Config) (config.ServerConfig, error) {
		return cfg.GetServer()
	}); err != nil {
		return nil, err
	}

	// Register server
	if err := container.Provide(server.New); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *server.Server) ports.Service {
		return s
	}); err != nil {
		return nil, err
	}

	return container, nil
}

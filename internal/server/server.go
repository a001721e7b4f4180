package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/sentinel-report/internal/config"
	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/ports"
)

// Server serves the add-in assets and the published report configuration
type Server struct {
	cfg        config.ServerConfig
	report     core.ReportConfig
	cache      ports.AssetCache
	logger     *zap.Logger
	httpServer *http.Server
	now        func() time.Time
}

// New creates a new asset/config server
func New(cfg config.ServerConfig, report core.ReportConfig, cache ports.AssetCache, logger *zap.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		report: report.WithDefaults(),
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(securityHeaders)
	r.Use(middleware.GetHead)

	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/manifest.xml", s.serveAsset("manifest.xml", "application/xml", "Failed to load manifest"))
	r.Get("/function-file/function-file.html", s.serveAsset("function-file.html", "text/html; charset=utf-8", "Failed to load function file"))
	r.Get("/scripts/function-file.js", s.serveAsset("function-file.js", "application/javascript; charset=utf-8", "Failed to load script"))
	r.Get("/api/config", s.handleConfig)
	r.Get("/health", s.handleHealth)

	static := http.FileServer(http.Dir(s.cfg.PublicDir))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, r)
			return
		}
		static.ServeHTTP(w, r)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if s.tlsAvailable() {
			s.logger.Info("Starting HTTPS server", zap.String("addr", s.httpServer.Addr))
			err = s.httpServer.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			s.logger.Warn("Certificates not found, falling back to HTTP",
				zap.String("cert_file", s.cfg.CertFile),
				zap.String("key_file", s.cfg.KeyFile))
			s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) tlsAvailable() bool {
	if s.cfg.CertFile == "" || s.cfg.KeyFile == "" {
		return false
	}
	if _, err := os.Stat(s.cfg.CertFile); err != nil {
		return false
	}
	if _, err := os.Stat(s.cfg.KeyFile); err != nil {
		return false
	}
	return true
}

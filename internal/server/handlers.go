package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/ports"
)

const assetCacheControl = "public, max-age=3600"

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// serveAsset returns a handler for one file under the asset directory
func (s *Server) serveAsset(name, contentType, failure string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := s.loadAsset(r, name)
		if err != nil {
			s.logger.Error("Failed to read asset", zap.String("asset", name), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: failure, Message: err.Error()})
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", assetCacheControl)
		w.WriteHeader(http.StatusOK)
		w.Write(content)
	}
}

func (s *Server) loadAsset(r *http.Request, name string) ([]byte, error) {
	path := filepath.Join(s.cfg.AssetDir, name)
	ctx := r.Context()

	if entry, err := s.cache.Get(ctx, path); err == nil {
		return entry.Content, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, &ports.AssetEntry{Path: path, Content: content}); err != nil {
		s.logger.Warn("Failed to cache asset", zap.String("asset", name), zap.Error(err))
	}
	return content, nil
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ports.RemoteConfig{
		InfosecEmail:    s.report.InfosecEmail,
		SpamReportEmail: s.report.SpamReportEmail,
		SupportEmail:    s.report.SupportEmail,
		GophishURL:      s.report.BaseURL,
		Version:         s.report.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Version:     s.report.Version,
		Environment: s.cfg.Environment,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

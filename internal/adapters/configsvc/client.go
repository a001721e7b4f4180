package configsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/ports"
)

const maxPayloadSize = 64 << 10

// Client fetches the configuration published by sentinel-server
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new config service client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch reads GET <base>/api/config
func (c *Client) Fetch(ctx context.Context) (*ports.RemoteConfig, error) {
	url := c.baseURL + "/api/config"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create config request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch config from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config service returned %s", resp.Status)
	}

	var cfg ports.RemoteConfig
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadSize)).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	c.logger.Debug("Fetched remote config",
		zap.String("url", url),
		zap.String("version", cfg.Version))

	return &cfg, nil
}

package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"hubportal/internal/config"
	"hubportal/internal/services"
)

const userAgent = "hubportal/0.1"

// Asset is a named downloadable artifact attached to a published release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client queries a GitHub-style release index.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	downloadTimeout time.Duration
}

// NewClient constructs a release client from configuration.
func NewClient(cfg config.Release, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:      &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second},
		downloadTimeout: time.Duration(cfg.DownloadTimeoutSeconds) * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompilePattern builds the case-insensitive full-name matcher for an asset
// naming pattern.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// LatestAsset fetches the most recent published release of repo and returns
// the first asset whose name matches pattern.
func (c *Client) LatestAsset(ctx context.Context, repo string, pattern *regexp.Regexp) (Asset, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrUpstream, "release", "resolve", "failed to build release request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrUpstream, "release", "resolve", "failed to fetch release metadata", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Asset{}, services.Wrap(services.ErrUpstream, "release", "resolve", fmt.Sprintf("release index returned status %d", resp.StatusCode), nil)
	}

	var payload struct {
		TagName string  `json:"tag_name"`
		Assets  []Asset `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Asset{}, services.Wrap(services.ErrUpstream, "release", "resolve", "failed to decode release metadata", err)
	}

	for _, asset := range payload.Assets {
		name := strings.TrimSpace(asset.Name)
		if name == "" || strings.TrimSpace(asset.DownloadURL) == "" {
			continue
		}
		if pattern.MatchString(name) {
			return Asset{Name: name, DownloadURL: asset.DownloadURL}, nil
		}
	}

	return Asset{}, services.Wrap(
		services.ErrNotFound,
		"release",
		"resolve",
		fmt.Sprintf("no asset matching %s in latest release of %s", pattern.String(), repo),
		nil,
	)
}

// Download retrieves the asset binary. An empty response body is a transport
// failure, never a valid zero-length artifact.
func (c *Client) Download(ctx context.Context, asset Asset) ([]byte, error) {
	downloadCtx := ctx
	if c.downloadTimeout > 0 {
		var cancel context.CancelFunc
		downloadCtx, cancel = context.WithTimeout(ctx, c.downloadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "release", "download", "failed to build download request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "release", "download", fmt.Sprintf("failed to download %s", asset.Name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrUpstream, "release", "download", fmt.Sprintf("download of %s returned status %d", asset.Name, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "release", "download", fmt.Sprintf("failed to read %s", asset.Name), err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrUpstream, "release", "download", fmt.Sprintf("downloaded %s is empty", asset.Name), nil)
	}
	return data, nil
}

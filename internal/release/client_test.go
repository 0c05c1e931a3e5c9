package release_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hubportal/internal/config"
	"hubportal/internal/release"
	"hubportal/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *release.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default().Release
	cfg.BaseURL = server.URL
	cfg.RequestTimeoutSeconds = 2
	cfg.DownloadTimeoutSeconds = 2
	return release.NewClient(cfg)
}

func TestLatestAssetMatchesPattern(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pybricks/pybricks-micropython/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"tag_name": "v3.6.1",
			"assets": [
				{"name": "pybricks-cityhub-v3.6.1.zip", "browser_download_url": "http://example/city.zip"},
				{"name": "Pybricks-PrimeHub-v3.6.1.zip", "browser_download_url": "http://example/prime.zip"}
			]
		}`))
	})

	pattern, err := release.CompilePattern(`^pybricks-primehub-v\d+\.\d+\.\d+\.zip$`)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	asset, err := client.LatestAsset(context.Background(), "pybricks/pybricks-micropython", pattern)
	if err != nil {
		t.Fatalf("LatestAsset: %v", err)
	}
	if asset.Name != "Pybricks-PrimeHub-v3.6.1.zip" {
		t.Fatalf("expected case-insensitive match, got %q", asset.Name)
	}
	if asset.DownloadURL != "http://example/prime.zip" {
		t.Fatalf("unexpected url %q", asset.DownloadURL)
	}
}

func TestLatestAssetNoMatchIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assets": [{"name": "pybricks-cityhub-v3.6.1.zip", "browser_download_url": "http://example/x.zip"}]}`))
	})

	pattern, _ := release.CompilePattern(`^pybricks-primehub-v\d+\.\d+\.\d+\.zip$`)
	_, err := client.LatestAsset(context.Background(), "pybricks/pybricks-micropython", pattern)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLatestAssetServerErrorIsUpstream(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	pattern, _ := release.CompilePattern(`.*`)
	_, err := client.LatestAsset(context.Background(), "pybricks/pybricks-micropython", pattern)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestLatestAssetUnreachableHostIsUpstream(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Release
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.RequestTimeoutSeconds = 1
	client := release.NewClient(cfg)

	pattern, _ := release.CompilePattern(`.*`)
	_, err := client.LatestAsset(context.Background(), "pybricks/pybricks-micropython", pattern)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestDownloadReturnsBytes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("firmware-bytes"))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	data, err := client.Download(context.Background(), release.Asset{Name: "fw.zip", DownloadURL: server.URL})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "firmware-bytes" {
		t.Fatalf("unexpected payload %q", string(data))
	}
}

func TestDownloadEmptyBodyIsUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.Download(context.Background(), release.Asset{Name: "fw.zip", DownloadURL: server.URL})
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error for empty body, got %v", err)
	}
}

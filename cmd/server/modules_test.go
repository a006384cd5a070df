package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/infrastructure"
	"github.com/amink7/assets-manager/internal/publishers"
	"github.com/amink7/assets-manager/pkg/workers"
)

func newInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()

	cfg := &config.Config{
		Assets: config.AssetsConfig{
			Repository: config.RepositoryMemory,
			Publisher:  publishers.Config{Backend: publishers.BackendLocal, Directory: t.TempDir()},
		},
		Workers: workers.Config{Count: 1, QueueSize: 1},
	}

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	return infra
}

func get(t *testing.T, h http.Handler, path string) (int, healthStatus) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body healthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: decode %q: %v", path, rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHealthAndReadiness(t *testing.T) {
	infra := newInfra(t)
	router := buildRouter(infra)

	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	code, body := get(t, router, "/readyz")
	if code != http.StatusServiceUnavailable || body.Reason == "" {
		t.Errorf("readyz before startup: %d %+v", code, body)
	}

	infra.Lifecycle.WaitForStartup()

	code, body = get(t, router, "/healthz")
	if code != http.StatusOK || body.State != "running" {
		t.Errorf("healthz: %d %+v", code, body)
	}
	code, body = get(t, router, "/readyz")
	if code != http.StatusOK || body.Status != "ready" {
		t.Errorf("readyz after startup: %d %+v", code, body)
	}

	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if code, _ := get(t, router, "/readyz"); code != http.StatusServiceUnavailable {
		t.Errorf("readyz while draining: got %d, want 503", code)
	}
}

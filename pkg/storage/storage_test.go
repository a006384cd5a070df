package storage_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/amink7/assets-manager/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=assetstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/assetstore;"

func newSystem(t *testing.T) storage.System {
	t.Helper()

	cfg := &storage.Config{
		ContainerName:    "assets",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "assets",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestURL(t *testing.T) {
	sys := newSystem(t)

	got, err := sys.URL("uploads/a.txt")
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}

	if !strings.HasPrefix(got, "http://127.0.0.1:10000/assetstore") {
		t.Errorf("URL() = %q, want azurite endpoint prefix", got)
	}
	if !strings.HasSuffix(got, "/assets/uploads/a.txt") {
		t.Errorf("URL() = %q, want container and key suffix", got)
	}
}

func TestKeyValidation(t *testing.T) {
	sys := newSystem(t)

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "uploads/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "uploads/..hidden/file.bin", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := sys.Upload(ctx, tt.key, bytes.NewReader([]byte("x")), "text/plain")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if n != 0 {
				t.Errorf("Upload() wrote %d bytes, want 0", n)
			}

			if _, err := sys.URL(tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("URL() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeyValidationRejectsUnsafeKeys(t *testing.T) {
	sys := newSystem(t)

	for _, key := range []string{
		"/absolute/a.txt",
		`uploads\a.txt`,
		"uploads/a\nb.txt",
		strings.Repeat("k", 1025),
	} {
		if _, err := sys.URL(key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("URL(%.20q) error = %v, want ErrInvalidKey", key, err)
		}
	}

	if _, err := sys.URL(strings.Repeat("k", 1024)); err != nil {
		t.Errorf("URL(1024-byte key) error = %v", err)
	}
}

func TestReadyBeforeStart(t *testing.T) {
	sys := newSystem(t)
	if err := sys.Ready(); !errors.Is(err, storage.ErrNotReady) {
		t.Errorf("Ready() = %v, want ErrNotReady", err)
	}
}

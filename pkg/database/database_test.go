package database_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amink7/assets-manager/pkg/database"
	"github.com/amink7/assets-manager/pkg/lifecycle"
)

func TestNewSetsPoolParams(t *testing.T) {
	cfg := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "assets",
		User:            "assets",
		SSLMode:         "disable",
		MaxOpenConns:    12,
		MaxIdleConns:    3,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "3s",
	}

	sys, err := database.New(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	if conn == nil {
		t.Fatal("Connection() returned nil")
	}
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 12 {
		t.Errorf("MaxOpenConnections = %d, want 12", got)
	}
}

func TestStartGivesUpWithinConnTimeout(t *testing.T) {
	cfg := database.Config{
		Host:            "127.0.0.1",
		Port:            1,
		Name:            "assets",
		User:            "assets",
		SSLMode:         "disable",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "1m",
		ConnTimeout:     "300ms",
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := sys.Ping(ctx); err == nil {
		t.Fatal("Ping() succeeded against a closed port")
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		lc.WaitForStartup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("startup did not give up after the connection timeout")
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

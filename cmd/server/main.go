package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amink7/assets-manager/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = srv.Run(ctx)
	stop()

	if err != nil {
		log.Fatal(err)
	}
}

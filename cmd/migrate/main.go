package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes a dirty database, which needs a manual force.
func exitCode(err error) int {
	if errors.Is(err, errDirty) {
		return 2
	}
	return 1
}

package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// GracefulShutdown blocks until SIGINT or SIGTERM arrives and returns it, or returns nil once ctx is done.
func GracefulShutdown(ctx context.Context) os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		return sig
	case <-ctx.Done():
		return nil
	}
}

// Command server serves the Rucheng dialect dictionary: the static site,
// the JSON search API and health/metrics endpoints. It exits on SIGINT or
// SIGTERM after a graceful shutdown.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/rucheng-dialect/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

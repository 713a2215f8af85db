// Command server runs the read API over the canonical dictionary:
// entry lookup, prefix search and provenance inspection.
//
// Configuration comes from config.yaml (or CONFIG_PATH) with environment
// overrides. Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/mh2des/arabic-dictionary-api/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

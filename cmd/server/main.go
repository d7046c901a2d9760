// Command server runs the vocabulary practice REST API.
//
// Configuration comes from config.yaml (or CONFIG_PATH), .env and the
// environment. SIGINT or SIGTERM stops the server gracefully.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wortschatz/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// Command migrate applies the Postgres schema of the vocabulary store.
//
// Flags:
//
//	--down  roll back the most recent migration instead
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/wortschatz/internal/adapter/postgres"
	"github.com/heartmarshall/wortschatz/internal/app"
	"github.com/heartmarshall/wortschatz/internal/config"
)

func main() {
	downFlag := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(cfg, logger, *downFlag); err != nil {
		logger.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run holds the command body so deferred cleanup happens before main exits.
func run(cfg *config.Config, logger *slog.Logger, down bool) error {
	if !cfg.Database.Enabled() {
		return errors.New("database.dsn (DATABASE_DSN) is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	m, err := postgres.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()

	var results []*goose.MigrationResult
	if down {
		var res *goose.MigrationResult
		res, err = m.Down(ctx)
		if res != nil {
			results = append(results, res)
		}
	} else {
		results, err = m.Up(ctx)
	}
	for _, r := range results {
		logger.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("direction", r.Direction),
			slog.Duration("duration", r.Duration),
		)
	}
	if err != nil {
		return err
	}

	logger.Info("migrations complete", slog.Int("applied", len(results)))
	return nil
}

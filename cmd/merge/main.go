// Command merge folds newly generated entries into the vocabulary database
// and prints the update report.
//
// Flags:
//
//	--in      entries to merge (default: <database_dir>/new_entries.json)
//	--target  "file" for the JSON database or "postgres" for database.dsn
//
// New words are appended. For existing words every non-null incoming field
// overwrites the stored one; null fields never erase data.
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

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/app"
	"github.com/heartmarshall/wortschatz/internal/app/merger"
	"github.com/heartmarshall/wortschatz/internal/config"
)

const (
	targetFile     = "file"
	targetPostgres = "postgres"
)

func main() {
	inFlag := flag.String("in", "", "entries to merge (default: <database_dir>/new_entries.json)")
	targetFlag := flag.String("target", targetFile, "database to update: file or postgres")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(cfg, logger, *inFlag, *targetFlag); err != nil {
		logger.Error("merge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run holds the command body so deferred cleanup happens before main exits.
func run(cfg *config.Config, logger *slog.Logger, in, target string) error {
	switch target {
	case targetFile:
		cfg.Database.DSN = ""
	case targetPostgres:
		if !cfg.Database.Enabled() {
			return errors.New("target postgres requires database.dsn (DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("unknown target %q", target)
	}

	if in == "" {
		in = cfg.Paths.NewEntriesPath()
	}

	incoming, err := jsonstore.ReadEntries(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	stats, err := merger.NewService(store, logger).Run(ctx, incoming)
	if err != nil {
		return err
	}

	fmt.Print(stats.Report())
	fmt.Println("\nSuccess! Database saved.")
	return nil
}

// Command generate creates vocabulary entries for a list of German lemmas
// with one model call per lemma and writes them as a JSON array.
//
// Usage:
//
//	generate [--words file] [--out path] [word ...]
//
// Flags:
//
//	--words  word list file: a .json array of strings or one word per line
//	--out    output file (default: <database_dir>/new_entries.json)
//
// Lemmas from --words come first, followed by the positional arguments. A
// duplicate or blank lemma rejects the whole batch before any model call.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/app"
	"github.com/heartmarshall/wortschatz/internal/app/generator"
	"github.com/heartmarshall/wortschatz/internal/config"
)

func main() {
	wordsFlag := flag.String("words", "", "word list file (.json array or one word per line)")
	outFlag := flag.String("out", "", "output file (default: <database_dir>/new_entries.json)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(cfg, logger, *wordsFlag, *outFlag, flag.Args()); err != nil {
		logger.Error("generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run holds the command body so deferred cleanup happens before main exits.
func run(cfg *config.Config, logger *slog.Logger, wordsPath, out string, args []string) error {
	var words []string
	if wordsPath != "" {
		var err error
		words, err = jsonstore.ReadWordList(wordsPath)
		if err != nil {
			return fmt.Errorf("read word list: %w", err)
		}
	}
	words = append(words, args...)

	if out == "" {
		out = cfg.Paths.NewEntriesPath()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.LLM.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLM.BatchTimeout)
		defer cancel()
	}

	caller, closeCaller, err := app.NewCaller(ctx, cfg, prometheus.NewRegistry(), logger)
	if err != nil {
		return fmt.Errorf("create model caller: %w", err)
	}
	defer func() {
		if err := closeCaller(); err != nil {
			logger.Warn("close model caller", slog.String("error", err.Error()))
		}
	}()

	svc := generator.NewService(caller, generator.Config{Workers: cfg.LLM.Workers}, nil, logger)
	entries, err := svc.Run(ctx, words, out)
	if err != nil {
		return err
	}

	logger.Info("generation completed",
		slog.Int("entries", len(entries)),
		slog.String("out", out),
	)
	return nil
}

// Command validate cross-checks stored entries against the model service and
// writes a per-field report.
//
// Flags:
//
//	--in   entries file (default: <database_dir>/new_entries.json)
//	--out  report file (default: paths.report_file)
//
// The summary line "Checks: N, failed: M" is printed to stdout. Entries whose
// checks could not be completed are logged and left out of the report.
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
	"github.com/heartmarshall/wortschatz/internal/app/validator"
	"github.com/heartmarshall/wortschatz/internal/config"
	"github.com/heartmarshall/wortschatz/internal/prompt"
)

func main() {
	inFlag := flag.String("in", "", "entries file (default: <database_dir>/new_entries.json)")
	outFlag := flag.String("out", "", "report file (default: paths.report_file)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(cfg, logger, *inFlag, *outFlag); err != nil {
		logger.Error("validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run holds the command body so deferred cleanup happens before main exits.
func run(cfg *config.Config, logger *slog.Logger, in, out string) error {
	if in == "" {
		in = cfg.Paths.NewEntriesPath()
	}
	if out == "" {
		out = cfg.Paths.ReportFile
	}

	entries, err := jsonstore.ReadEntries(in)
	if err != nil {
		return fmt.Errorf("read entries: %w", err)
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

	svc := validator.NewService(caller, prompt.NewManager(logger), validator.Config{
		TopK:     cfg.LLM.TopK,
		VerbForm: cfg.LLM.ValidateVerbForm,
	}, logger)
	batch, err := svc.Run(ctx, entries, out)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote report: %s\n", out)
	fmt.Println(batch.Summary().String())
	return nil
}

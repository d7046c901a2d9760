// Command extract-words prints the words of an entries file, for example to
// build the word list of the next generation run.
//
// Flags:
//
//	--in  entries file (default: the vocabulary database file)
//
// Output is a JSON array of strings on stdout; the count goes to the log.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/app"
	"github.com/heartmarshall/wortschatz/internal/config"
)

func main() {
	inFlag := flag.String("in", "", "entries file (default: the vocabulary database file)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	in := *inFlag
	if in == "" {
		in = cfg.Paths.DBPath()
	}

	words, err := jsonstore.ExtractWords(in)
	if err != nil {
		logger.Error("extract words", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("words found", slog.Int("count", len(words)), slog.String("path", in))

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(words); err != nil {
		logger.Error("write output", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

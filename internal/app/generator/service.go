// Package generator builds complete vocabulary entries from lemmas with one
// schema-constrained model call per lemma.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/domain"
	"github.com/heartmarshall/wortschatz/internal/llm"
	"github.com/heartmarshall/wortschatz/internal/prompt"
)

// Caller is the model-call dependency.
type Caller interface {
	Call(ctx context.Context, prompt string, schema llm.Schema, out any) error
}

// WriteFunc persists a finished batch.
type WriteFunc func(path string, entries []domain.Entry) error

// Config controls batch execution.
type Config struct {
	// Workers > 1 generates lemmas concurrently; output is then sorted by word.
	Workers int
}

// Service generates entries.
type Service struct {
	caller  Caller
	workers int
	write   WriteFunc
	log     *slog.Logger
}

// NewService creates a generator. A nil write defaults to jsonstore.WriteEntries.
func NewService(caller Caller, cfg Config, write WriteFunc, logger *slog.Logger) *Service {
	if write == nil {
		write = jsonstore.WriteEntries
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		caller:  caller,
		workers: workers,
		write:   write,
		log:     logger.With("service", "generator"),
	}
}

// rawEntry is the decoded model answer, including the generation-only pos.
type rawEntry struct {
	domain.Entry
	POS string `json:"pos"`
}

// GenerateOne produces the entry for a single lemma.
func (s *Service) GenerateOne(ctx context.Context, word string) (domain.Entry, error) {
	word = domain.NormBasic(word)
	if word == "" {
		return domain.Entry{}, domain.NewValidationError(domain.FieldWord, "must not be empty")
	}

	var raw rawEntry
	if err := s.caller.Call(ctx, prompt.Entry(word), llm.EntrySchema(), &raw); err != nil {
		return domain.Entry{}, err
	}

	lex, err := s.coerce(ctx, word, raw)
	if err != nil {
		return domain.Entry{}, err
	}
	s.log.DebugContext(ctx, "entry generated",
		slog.String("word", word),
		slog.String("pos", lex.PartOfSpeech().String()),
	)
	return lex.Entry(), nil
}

// Generate produces one entry per lemma. Blank or duplicate lemmas are
// rejected before any model call. Any failure aborts the whole batch.
func (s *Service) Generate(ctx context.Context, words []string) ([]domain.Entry, error) {
	words, err := checkWords(words)
	if err != nil {
		return nil, err
	}

	if s.workers == 1 {
		entries := make([]domain.Entry, 0, len(words))
		for _, w := range words {
			e, err := s.GenerateOne(ctx, w)
			if err != nil {
				return nil, fmt.Errorf("generate %q: %w", w, err)
			}
			entries = append(entries, e)
		}
		return entries, nil
	}

	entries := make([]domain.Entry, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, w := range words {
		g.Go(func() error {
			e, err := s.GenerateOne(gctx, w)
			if err != nil {
				return fmt.Errorf("generate %q: %w", w, err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b domain.Entry) int { return strings.Compare(a.Word, b.Word) })
	return entries, nil
}

// Run generates the batch and writes it to path in one write. Nothing is
// written when generation fails.
func (s *Service) Run(ctx context.Context, words []string, path string) ([]domain.Entry, error) {
	entries, err := s.Generate(ctx, words)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "writing output",
		slog.Int("words", len(entries)),
		slog.String("path", path),
	)
	if err := s.write(path, entries); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return entries, nil
}

// checkWords normalizes the lemmas the way GenerateOne does and rejects
// empty input, blanks and duplicates among the normalized forms.
func checkWords(words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, domain.ErrEmptyInput
	}

	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	var dups []string
	for _, w := range words {
		w = domain.NormBasic(w)
		if w == "" {
			return nil, domain.NewValidationError(domain.FieldWord, "must not be empty")
		}
		if seen[w] {
			if !slices.Contains(dups, w) {
				dups = append(dups, w)
			}
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	if len(dups) > 0 {
		return nil, &domain.DuplicateInputError{Words: dups}
	}
	return out, nil
}

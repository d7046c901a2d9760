// Package validator cross-checks the fields of stored entries by asking the
// model service narrow questions and comparing the answers under
// normalization.
package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/domain"
	"github.com/heartmarshall/wortschatz/internal/llm"
	"github.com/heartmarshall/wortschatz/internal/prompt"
)

// Caller is the model-call dependency.
type Caller interface {
	Call(ctx context.Context, prompt string, schema llm.Schema, out any) error
}

// Config controls validation.
type Config struct {
	TopK int
	// VerbForm adds a check of the verb_form field. Off by default.
	VerbForm bool
}

// Service validates entries. It never modifies them.
type Service struct {
	caller   Caller
	prompts  *prompt.Manager
	topK     int
	verbForm bool
	log      *slog.Logger
}

// NewService creates a validator. TopK below 1 falls back to 3.
func NewService(caller Caller, prompts *prompt.Manager, cfg Config, logger *slog.Logger) *Service {
	topK := cfg.TopK
	if topK < 1 {
		topK = 3
	}
	return &Service{
		caller:   caller,
		prompts:  prompts,
		topK:     topK,
		verbForm: cfg.VerbForm,
		log:      logger.With("service", "validator"),
	}
}

// check is one field verification: the prompt to send and how to judge
// the returned candidates.
type check struct {
	field string
	build func(input string, topK int) (prompt.ValidationPrompt, error)
	input string
	pass  func(candidates []string) bool
}

// ValidateEntry checks every non-empty field of e in a fixed order and
// returns one result per checked field. A failed model call aborts the
// entry and no results are returned.
func (s *Service) ValidateEntry(ctx context.Context, e domain.Entry) ([]domain.FieldResult, error) {
	results := make([]domain.FieldResult, 0, 6)
	for _, c := range s.checks(e) {
		if c.build == nil {
			results = append(results, domain.NewFieldResult(c.field, true, nil))
			continue
		}

		p, err := c.build(c.input, s.topK)
		if err != nil {
			return nil, fmt.Errorf("build %s prompt: %w", c.field, err)
		}

		var set domain.CandidateSet
		if err := s.caller.Call(ctx, p.Render(), llm.CandidateSchema(), &set); err != nil {
			return nil, fmt.Errorf("validate %s: %w", c.field, err)
		}

		ok := c.pass(set.Candidates)
		s.log.DebugContext(ctx, "field checked",
			slog.String("word", e.Word),
			slog.String("field", c.field),
			slog.Bool("pass", ok),
			slog.Any("candidates", set.Candidates),
		)
		results = append(results, domain.NewFieldResult(c.field, ok, set.Candidates))
	}
	return results, nil
}

func (s *Service) checks(e domain.Entry) []check {
	var cs []check
	if e.ExplanationDE != "" {
		cs = append(cs, check{
			field: domain.FieldExplanationDE,
			build: s.prompts.Definition,
			input: e.ExplanationDE,
			pass:  func(c []string) bool { return containsLemma(c, e.Word) },
		})
	}
	if e.TranslationEN != "" {
		cs = append(cs, check{
			field: domain.FieldTranslationEN,
			build: s.prompts.Translations,
			input: e.Word,
			pass:  func(c []string) bool { return overlapsTranslation(e.TranslationEN, c) },
		})
	}
	if e.ExampleSentence != "" {
		// No lemma-from-sentence question exists yet: reported, never asked.
		cs = append(cs, check{field: domain.FieldExampleSentence})
	}
	if opp := domain.Deref(e.Opposite); opp != "" {
		cs = append(cs, check{
			field: domain.FieldOpposite,
			build: s.prompts.Antonyms,
			input: e.Word,
			pass:  func(c []string) bool { return containsLemma(c, opp) },
		})
	}
	if nf := domain.Deref(e.NounForm); nf != "" {
		cs = append(cs, check{
			field: domain.FieldNounForm,
			build: s.prompts.NounForm,
			input: e.Word,
			pass:  func(c []string) bool { return containsArticleForm(c, nf) },
		})
	}
	if vf := domain.Deref(e.VerbForm); s.verbForm && vf != "" {
		cs = append(cs, check{
			field: domain.FieldVerbForm,
			build: s.prompts.VerbForm,
			input: e.Word,
			pass:  func(c []string) bool { return containsLemma(c, vf) },
		})
	}
	return cs
}

// Failure records an entry whose validation was aborted.
type Failure struct {
	Word string
	Err  error
}

// Batch is the outcome of validating many entries.
type Batch struct {
	Reports []domain.EntryReport
	Failed  []Failure
}

// Summary counts checks and failed checks over the report.
func (b Batch) Summary() domain.Summary { return domain.Summarize(b.Reports) }

// ValidateBatch validates entries one by one. An entry whose validation
// fails is recorded in Failed and skipped; entries without any checkable
// field produce no report. Context cancellation stops the batch.
func (s *Service) ValidateBatch(ctx context.Context, entries []domain.Entry) (Batch, error) {
	var b Batch
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return b, err
		}

		results, err := s.ValidateEntry(ctx, e)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return b, err
			}
			s.log.WarnContext(ctx, "entry skipped",
				slog.String("word", e.Word),
				slog.String("error", err.Error()),
			)
			b.Failed = append(b.Failed, Failure{Word: e.Word, Err: err})
			continue
		}
		if len(results) > 0 {
			b.Reports = append(b.Reports, domain.EntryReport{Word: e.Word, Results: results})
		}
	}

	s.log.InfoContext(ctx, "validation complete",
		slog.Int("entries", len(entries)),
		slog.Int("reported", len(b.Reports)),
		slog.Int("skipped", len(b.Failed)),
		slog.String("summary", b.Summary().String()),
	)
	return b, nil
}

// Run validates entries and writes the report to path.
func (s *Service) Run(ctx context.Context, entries []domain.Entry, path string) (Batch, error) {
	b, err := s.ValidateBatch(ctx, entries)
	if err != nil {
		return b, err
	}
	if err := jsonstore.WriteReport(path, b.Reports); err != nil {
		return b, fmt.Errorf("write report: %w", err)
	}
	return b, nil
}

func containsLemma(candidates []string, want string) bool {
	key := domain.LemmaKey(want)
	for _, c := range candidates {
		if domain.LemmaKey(c) == key {
			return true
		}
	}
	return false
}

func containsArticleForm(candidates []string, want string) bool {
	key := domain.NormArticleForm(want)
	for _, c := range candidates {
		if domain.NormArticleForm(c) == key {
			return true
		}
	}
	return false
}

// overlapsTranslation splits the stored translation on commas and reports
// whether any token equals a candidate, both trimmed and lower-cased.
func overlapsTranslation(stored string, candidates []string) bool {
	set := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		set[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, tok := range strings.Split(stored, ",") {
		if set[strings.ToLower(strings.TrimSpace(tok))] {
			return true
		}
	}
	return false
}

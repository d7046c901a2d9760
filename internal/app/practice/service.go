// Package practice builds vocabulary exercises from the word database and
// checks the answers.
package practice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// EntrySource provides the entries exercises are drawn from.
type EntrySource interface {
	Load(ctx context.Context) ([]domain.Entry, error)
}

// Config controls exercise generation.
type Config struct {
	// HintOptions is the number of choices a hint offers, answer included.
	HintOptions int
	SessionTTL  time.Duration
}

// Service hands out exercises and checks answers.
type Service struct {
	source   EntrySource
	sessions *SessionStore
	options  int
	log      *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand replaces the random source.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rnd = r }
}

// WithSessionStore replaces the session store.
func WithSessionStore(st *SessionStore) Option {
	return func(s *Service) { s.sessions = st }
}

// NewService creates a practice service. HintOptions below 2 falls back to 4.
func NewService(source EntrySource, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	options := cfg.HintOptions
	if options < 2 {
		options = 4
	}
	s := &Service{
		source:   source,
		sessions: NewSessionStore(cfg.SessionTTL),
		options:  options,
		log:      logger.With("service", "practice"),
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next draws a random entry and builds an exercise of type t. An empty t
// picks a random type among those the database can serve.
func (s *Service) Next(ctx context.Context, t ExerciseType) (Exercise, error) {
	if t != "" && !t.IsValid() {
		return Exercise{}, domain.NewValidationError("type", "unknown exercise type")
	}

	entries, err := s.source.Load(ctx)
	if err != nil {
		return Exercise{}, fmt.Errorf("load entries: %w", err)
	}

	types := AllTypes
	if t != "" {
		types = []ExerciseType{t}
	}

	pools := make(map[ExerciseType][]domain.Entry, len(types))
	var usable []ExerciseType
	for _, typ := range types {
		for _, e := range entries {
			if eligible(typ, e) {
				pools[typ] = append(pools[typ], e)
			}
		}
		if len(pools[typ]) > 0 {
			usable = append(usable, typ)
		}
	}
	if len(usable) == 0 {
		return Exercise{}, fmt.Errorf("no entries for exercise %q: %w", t, domain.ErrNotFound)
	}

	s.mu.Lock()
	typ := usable[s.rnd.IntN(len(usable))]
	pool := pools[typ]
	e := pool[s.rnd.IntN(len(pool))]
	s.mu.Unlock()

	q, answer := question(typ, e)
	ex := Exercise{
		ID:        uuid.New(),
		Type:      typ,
		Question:  q,
		Answer:    answer,
		Entry:     e,
		CreatedAt: time.Now(),
	}
	s.sessions.Put(ex)

	s.log.DebugContext(ctx, "exercise created",
		slog.String("id", ex.ID.String()),
		slog.String("type", typ.String()),
		slog.String("word", e.Word),
	)
	return ex, nil
}

// Hint returns up to HintOptions choices for an open exercise: distinct
// distractors from other entries plus the answer, shuffled.
func (s *Service) Hint(ctx context.Context, id uuid.UUID) ([]string, error) {
	ex, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("exercise %s: %w", id, domain.ErrNotFound)
	}

	entries, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	correct := option(ex.Type, ex.Entry)
	want := s.options - 1

	s.mu.Lock()
	defer s.mu.Unlock()

	var distractors []string
	seen := map[string]bool{strings.ToLower(correct): true}
	for _, i := range s.rnd.Perm(len(entries)) {
		if len(distractors) == want {
			break
		}
		cand := option(ex.Type, entries[i])
		key := strings.ToLower(cand)
		if cand == "" || seen[key] {
			continue
		}
		seen[key] = true
		distractors = append(distractors, cand)
	}

	options := append(distractors, correct)
	s.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options, nil
}

// Answer checks answer against the open exercise and closes it.
func (s *Service) Answer(ctx context.Context, id uuid.UUID, answer string) (Verdict, error) {
	ex, ok := s.sessions.Take(id)
	if !ok {
		return Verdict{}, fmt.Errorf("exercise %s: %w", id, domain.ErrNotFound)
	}

	v := ex.Check(answer)
	s.log.DebugContext(ctx, "exercise answered",
		slog.String("id", id.String()),
		slog.Bool("correct", v.Correct),
	)
	return v, nil
}

package merger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// Store is the word database the merge reads from and writes back to.
type Store interface {
	Load(ctx context.Context) ([]domain.Entry, error)
	Save(ctx context.Context, entries []domain.Entry) error
}

// Service runs merges against a Store.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a merge service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.With("service", "merger"),
	}
}

// Run loads the database, merges incoming into it and saves the result.
func (s *Service) Run(ctx context.Context, incoming []domain.Entry) (Stats, error) {
	existing, err := s.store.Load(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load database: %w", err)
	}

	merged, stats := Merge(existing, incoming)
	s.log.InfoContext(ctx, "merge computed",
		slog.Int("incoming", len(incoming)),
		slog.Int("added", stats.WordsAdded),
		slog.Int("updated", stats.WordsUpdated),
	)

	if err := s.store.Save(ctx, merged); err != nil {
		return stats, fmt.Errorf("save database: %w", err)
	}
	return stats, nil
}

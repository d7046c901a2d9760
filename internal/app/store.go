package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wortschatz/internal/adapter/jsonstore"
	"github.com/heartmarshall/wortschatz/internal/adapter/postgres"
	"github.com/heartmarshall/wortschatz/internal/adapter/postgres/vocab"
	"github.com/heartmarshall/wortschatz/internal/config"
	"github.com/heartmarshall/wortschatz/internal/domain"
)

// Store is the vocabulary database as the commands and the server see it.
type Store interface {
	Load(ctx context.Context) ([]domain.Entry, error)
	Save(ctx context.Context, entries []domain.Entry) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*jsonstore.FileStore)(nil)
	_ Store = (*vocab.Repo)(nil)
)

// OpenStore returns the Postgres store when a DSN is configured and the JSON
// file store otherwise. The close function is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func(), error) {
	if !cfg.Database.Enabled() {
		path := cfg.Paths.DBPath()
		logger.Info("using file store", slog.String("path", path))
		return jsonstore.NewFileStore(path, logger), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("using postgres store")
	return vocab.New(pool, logger), pool.Close, nil
}

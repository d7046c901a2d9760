// Package vocab stores the word database in PostgreSQL. It is the
// alternative to the JSON file store and satisfies the same Load/Save
// contract.
package vocab

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wortschatz/internal/adapter/postgres"
	"github.com/heartmarshall/wortschatz/internal/domain"
)

const table = "vocab_entries"

var columns = []string{
	"word",
	"explanation_de",
	"translation_en",
	"example_sentence",
	"opposite",
	"article",
	"level",
	"plural_form",
	"noun_form",
	"verb_form",
}

const upsertSuffix = `ON CONFLICT (word) DO UPDATE SET
    position         = EXCLUDED.position,
    explanation_de   = EXCLUDED.explanation_de,
    translation_en   = EXCLUDED.translation_en,
    example_sentence = EXCLUDED.example_sentence,
    opposite         = EXCLUDED.opposite,
    article          = EXCLUDED.article,
    level            = EXCLUDED.level,
    plural_form      = EXCLUDED.plural_form,
    noun_form        = EXCLUDED.noun_form,
    verb_form        = EXCLUDED.verb_form,
    updated_at       = now()`

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
	log  *slog.Logger
}

// New creates an entry repository.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Repo {
	return &Repo{
		pool: pool,
		tx:   postgres.NewTxManager(pool),
		log:  logger.With("adapter", "postgres"),
	}
}

// Load returns every entry in stored order. An empty table yields an empty
// slice.
func (r *Repo) Load(ctx context.Context) ([]domain.Entry, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		OrderBy("position", "word").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(
			&e.Word, &e.ExplanationDE, &e.TranslationEN, &e.ExampleSentence,
			&e.Opposite, &e.Article, &e.Level, &e.PluralForm, &e.NounForm, &e.VerbForm,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return entries, nil
}

// Save makes the table equal to entries in one transaction: every entry is
// upserted with its list position and rows for other words are removed.
// Entries without a word are ignored.
func (r *Repo) Save(ctx context.Context, entries []domain.Entry) error {
	batch := &pgx.Batch{}
	words := make([]string, 0, len(entries))
	for i, e := range entries {
		if e.Word == "" {
			continue
		}
		query, args, err := postgres.Builder.
			Insert(table).
			Columns(append([]string{"position"}, columns...)...).
			Values(i, e.Word, e.ExplanationDE, e.TranslationEN, e.ExampleSentence,
				e.Opposite, e.Article, e.Level, e.PluralForm, e.NounForm, e.VerbForm).
			Suffix(upsertSuffix).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert %q: %w", e.Word, err)
		}
		batch.Queue(query, args...)
		words = append(words, e.Word)
	}

	del, delArgs, err := postgres.Builder.
		Delete(table).
		Where(squirrel.NotEq{"word": words}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		if batch.Len() > 0 {
			br := q.SendBatch(ctx, batch)
			for _, w := range words {
				if _, err := br.Exec(); err != nil {
					_ = br.Close()
					return postgres.MapError(err, "entry", w)
				}
			}
			if err := br.Close(); err != nil {
				return fmt.Errorf("close batch: %w", err)
			}
		}

		tag, err := q.Exec(ctx, del, delArgs...)
		if err != nil {
			return fmt.Errorf("delete stale entries: %w", err)
		}
		if n := tag.RowsAffected(); n > 0 {
			r.log.InfoContext(ctx, "stale entries removed", slog.Int64("count", n))
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.InfoContext(ctx, "database saved", slog.Int("entries", len(words)))
	return nil
}

// Count returns the number of stored entries.
func (r *Repo) Count(ctx context.Context) (int, error) {
	query, args, err := postgres.Builder.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Get returns the entry for word.
func (r *Repo) Get(ctx context.Context, word string) (domain.Entry, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"word": word}).
		ToSql()
	if err != nil {
		return domain.Entry{}, fmt.Errorf("build get query: %w", err)
	}

	var e domain.Entry
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&e.Word, &e.ExplanationDE, &e.TranslationEN, &e.ExampleSentence,
		&e.Opposite, &e.Article, &e.Level, &e.PluralForm, &e.NounForm, &e.VerbForm,
	)
	if err != nil {
		return domain.Entry{}, postgres.MapError(err, "entry", word)
	}
	return e, nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

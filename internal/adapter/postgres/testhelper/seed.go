package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// UniqueWord returns prefix with a short random suffix so parallel tests
// sharing the container do not collide.
func UniqueWord(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// SeedEntry inserts e at position directly, bypassing the repository.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, position int, e domain.Entry) domain.Entry {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO vocab_entries (word, position, explanation_de, translation_en, example_sentence,
		                            opposite, article, level, plural_form, noun_form, verb_form)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.Word, position, e.ExplanationDE, e.TranslationEN, e.ExampleSentence,
		e.Opposite, e.Article, e.Level, e.PluralForm, e.NounForm, e.VerbForm,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry %q: %v", e.Word, err)
	}
	return e
}

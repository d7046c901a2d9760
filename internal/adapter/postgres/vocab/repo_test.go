package vocab_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wortschatz/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wortschatz/internal/adapter/postgres/vocab"
	"github.com/heartmarshall/wortschatz/internal/app/merger"
	"github.com/heartmarshall/wortschatz/internal/domain"
)

var _ merger.Store = (*vocab.Repo)(nil)

func newRepo(t *testing.T) (*vocab.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	if _, err := pool.Exec(context.Background(), `TRUNCATE vocab_entries`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return vocab.New(pool, slog.New(slog.NewTextHandler(io.Discard, nil))), pool
}

func TestRepo_LoadEmpty(t *testing.T) {
	repo, _ := newRepo(t)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Load = %#v, want empty non-nil slice", got)
	}
}

func TestRepo_SaveAndLoad(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	entries := []domain.Entry{
		{Word: "optimieren", TranslationEN: "optimize", NounForm: domain.Ptr("<die>Optimierung")},
		{Word: "Haus", TranslationEN: "house", Article: domain.Ptr("das"), PluralForm: domain.Ptr("Häuser")},
	}
	if err := repo.Save(ctx, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d entries, want 2", len(got))
	}
	if got[0].Word != "optimieren" || got[1].Word != "Haus" {
		t.Errorf("order = [%s %s], want [optimieren Haus]", got[0].Word, got[1].Word)
	}
	if domain.Deref(got[0].NounForm) != "<die>Optimierung" {
		t.Errorf("noun_form = %v", got[0].NounForm)
	}
	if got[0].Article != nil {
		t.Errorf("article = %v, want nil", *got[0].Article)
	}
}

func TestRepo_SaveReplaces(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, []domain.Entry{{Word: "alt"}, {Word: "bleibt", TranslationEN: "stays"}}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := repo.Save(ctx, []domain.Entry{{Word: "bleibt", TranslationEN: "remains"}, {Word: "neu"}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	e, err := repo.Get(ctx, "bleibt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.TranslationEN != "remains" {
		t.Errorf("translation = %q, want %q", e.TranslationEN, "remains")
	}

	if _, err := repo.Get(ctx, "alt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(removed) error = %v, want ErrNotFound", err)
	}
}

func TestRepo_SaveRollsBackOnInvalidRow(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	testhelper.SeedEntry(t, pool, 0, domain.Entry{Word: "Baum", TranslationEN: "tree"})

	err := repo.Save(ctx, []domain.Entry{
		{Word: "Baum", TranslationEN: "wood"},
		{Word: "kaputt", Article: domain.Ptr("dem")},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Save error = %v, want ErrValidation", err)
	}

	e, err := repo.Get(ctx, "Baum")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.TranslationEN != "tree" {
		t.Errorf("translation = %q after rollback, want %q", e.TranslationEN, "tree")
	}
}

func TestRepo_MergeService(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	svc := merger.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := svc.Run(ctx, []domain.Entry{{Word: "schnell", TranslationEN: "fast"}}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	stats, err := svc.Run(ctx, []domain.Entry{{Word: "schnell", Opposite: domain.Ptr("langsam")}, {Word: "leer"}})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.WordsBefore != 1 || stats.WordsAdded != 1 || stats.WordsUpdated != 1 {
		t.Errorf("stats = %+v", stats)
	}

	e, err := repo.Get(ctx, "schnell")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.TranslationEN != "fast" || domain.Deref(e.Opposite) != "langsam" {
		t.Errorf("entry = %+v", e)
	}
}

func TestRepo_Ping(t *testing.T) {
	repo, _ := newRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

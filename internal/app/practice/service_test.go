package practice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

type sourceMock struct {
	LoadFn func(ctx context.Context) ([]domain.Entry, error)
}

func (m *sourceMock) Load(ctx context.Context) ([]domain.Entry, error) { return m.LoadFn(ctx) }

func staticSource(entries ...domain.Entry) *sourceMock {
	return &sourceMock{LoadFn: func(context.Context) ([]domain.Entry, error) { return entries, nil }}
}

func newTestService(src EntrySource, opts ...Option) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return NewService(src, Config{HintOptions: 4, SessionTTL: time.Minute}, logger, opts...)
}

func testEntries() []domain.Entry {
	return []domain.Entry{
		{Word: "Haus", TranslationEN: "house", Article: domain.Ptr("das"), PluralForm: domain.Ptr("Häuser")},
		{Word: "Baum", TranslationEN: "tree", Article: domain.Ptr("der"), PluralForm: domain.Ptr("Bäume")},
		{Word: "schnell", TranslationEN: "fast, quick", Opposite: domain.Ptr("langsam")},
		{Word: "leer", TranslationEN: "empty"},
		{Word: "laufen", TranslationEN: "run"},
	}
}

func TestService_Next_RequestedType(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(testEntries()...))

	ex, err := svc.Next(context.Background(), TypeOppositeToGerman)
	require.NoError(t, err)
	assert.Equal(t, TypeOppositeToGerman, ex.Type)
	assert.Equal(t, "What is the opposite of: langsam?", ex.Question)
	assert.Equal(t, "schnell", ex.Answer)
	assert.NotEqual(t, uuid.Nil, ex.ID)
}

func TestService_Next_RandomTypeIsServable(t *testing.T) {
	t.Parallel()

	// Only translations exist, so only g2e and e2g can be drawn.
	svc := newTestService(staticSource(domain.Entry{Word: "leer", TranslationEN: "empty"}))
	for range 20 {
		ex, err := svc.Next(context.Background(), "")
		require.NoError(t, err)
		assert.Contains(t, []ExerciseType{TypeGermanToEnglish, TypeEnglishToGerman}, ex.Type)
	}
}

func TestService_Next_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nothing eligible", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(staticSource(domain.Entry{Word: "leer", TranslationEN: "empty"}))
		_, err := svc.Next(context.Background(), TypeSentence)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(staticSource())
		_, err := svc.Next(context.Background(), ExerciseType("x"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("source error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		svc := newTestService(&sourceMock{LoadFn: func(context.Context) ([]domain.Entry, error) { return nil, boom }})
		_, err := svc.Next(context.Background(), "")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Hint(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(testEntries()...))
	ex, err := svc.Next(context.Background(), TypeEnglishToGerman)
	require.NoError(t, err)

	opts, err := svc.Hint(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Len(t, opts, 4)
	assert.Contains(t, opts, ex.Answer)

	seen := map[string]bool{}
	for _, o := range opts {
		assert.False(t, seen[o], "duplicate option %q", o)
		seen[o] = true
	}

	// A hint does not close the exercise.
	_, err = svc.Answer(context.Background(), ex.ID, ex.Answer)
	require.NoError(t, err)
}

func TestService_Hint_SmallDatabase(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(
		domain.Entry{Word: "schnell", TranslationEN: "fast, quick"},
		domain.Entry{Word: "rasch", TranslationEN: "fast"},
	))
	ex, err := svc.Next(context.Background(), TypeGermanToEnglish)
	require.NoError(t, err)

	opts, err := svc.Hint(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fast"}, opts, "distractors equal to the answer are dropped")
}

func TestService_Answer(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(testEntries()...))
	ex, err := svc.Next(context.Background(), TypeGermanToEnglish)
	require.NoError(t, err)

	v, err := svc.Answer(context.Background(), ex.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, "So close! The right answer is: "+ex.Answer, v.Message)

	_, err = svc.Answer(context.Background(), ex.ID, ex.Answer)
	assert.ErrorIs(t, err, domain.ErrNotFound, "answered exercises are closed")

	_, err = svc.Hint(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(time.Minute)
	st.now = func() time.Time { return now }

	old := Exercise{ID: uuid.New(), CreatedAt: now}
	st.Put(old)
	_, ok := st.Get(old.ID)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = st.Get(old.ID)
	assert.False(t, ok)

	stale := Exercise{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}
	st.items[stale.ID] = stale
	fresh := Exercise{ID: uuid.New(), CreatedAt: now}
	st.Put(fresh)
	assert.Equal(t, 1, st.Len(), "put sweeps expired exercises")

	_, ok = st.Take(fresh.ID)
	assert.True(t, ok)
	_, ok = st.Take(fresh.ID)
	assert.False(t, ok)
}

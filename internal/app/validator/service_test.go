package validator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wortschatz/internal/domain"
	"github.com/heartmarshall/wortschatz/internal/llm"
	"github.com/heartmarshall/wortschatz/internal/prompt"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// answers maps a question kind to the candidates returned for it.
type answers map[prompt.Kind][]string

type callerMock struct {
	answers answers
	errs    map[prompt.Kind]error
	asked   []prompt.Kind
	inputs  []string
}

// kindOf recognises the question by its task text.
func kindOf(p string) prompt.Kind {
	switch {
	case strings.Contains(p, "lemma entries"):
		return prompt.KindDefinition
	case strings.Contains(p, "antonyms"):
		return prompt.KindAntonyms
	case strings.Contains(p, "English translations"):
		return prompt.KindTranslations
	case strings.Contains(p, "nominalizations"):
		return prompt.KindNounForm
	case strings.Contains(p, "corresponding verbs"):
		return prompt.KindVerbForm
	}
	return ""
}

func (m *callerMock) Call(_ context.Context, p string, schema llm.Schema, out any) error {
	if schema.Name != "validator_result" {
		return errors.New("unexpected schema")
	}
	kind := kindOf(p)
	m.asked = append(m.asked, kind)
	lines := strings.Split(strings.TrimSpace(p), "\n")
	m.inputs = append(m.inputs, lines[len(lines)-1])

	if err := m.errs[kind]; err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]any{"candidates": m.answers[kind]})
	return json.Unmarshal(body, out)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(m *callerMock) *Service {
	return NewService(m, prompt.NewManager(newTestLogger()), Config{TopK: 3}, newTestLogger())
}

func fullEntry() domain.Entry {
	return domain.Entry{
		Word:            "optimieren",
		ExplanationDE:   "etwas besser machen",
		TranslationEN:   "optimize, improve",
		ExampleSentence: "Wir müssen den Prozess optimieren.",
		Opposite:        domain.Ptr("verschlechtern"),
		NounForm:        domain.Ptr("<die>Optimierung"),
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidateEntry_TranslationOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       bool
	}{
		{name: "shared token", candidates: []string{"garbage", "rubbish"}, want: true},
		{name: "case and spaces", candidates: []string{"  RUBBISH "}, want: true},
		{name: "no overlap", candidates: []string{"junk", "litter"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &callerMock{answers: answers{prompt.KindTranslations: tt.candidates}}
			svc := newTestService(m)

			results, err := svc.ValidateEntry(context.Background(), domain.Entry{Word: "Müll", TranslationEN: "waste, rubbish"})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, domain.FieldTranslationEN, results[0].Field)
			assert.Equal(t, tt.want, results[0].Pass)
			assert.Equal(t, tt.candidates, results[0].Candidates)
		})
	}
}

func TestValidateEntry_ExplanationMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       bool
	}{
		{name: "case-insensitive", candidates: []string{"haus", "Gebäude"}, want: true},
		{name: "absent", candidates: []string{"Gebäude", "Wohnung"}, want: false},
		{name: "surrounding spaces", candidates: []string{" Haus "}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &callerMock{answers: answers{prompt.KindDefinition: tt.candidates}}
			svc := newTestService(m)

			results, err := svc.ValidateEntry(context.Background(), domain.Entry{Word: "Haus", ExplanationDE: "ein Gebäude zum Wohnen"})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Pass)
			assert.Equal(t, []string{"Definition (German): ein Gebäude zum Wohnen"}, m.inputs)
		})
	}
}

func TestValidateEntry_AllFieldsInOrder(t *testing.T) {
	t.Parallel()

	m := &callerMock{answers: answers{
		prompt.KindDefinition:   {"auf|optimieren", "optimieren"},
		prompt.KindTranslations: {"optimize"},
		prompt.KindAntonyms:     {"Verschlechtern", "", "ruinieren"},
		prompt.KindNounForm:     {"<DIE>optimierung", "<das>Optimieren"},
	}}
	svc := newTestService(m)

	results, err := svc.ValidateEntry(context.Background(), fullEntry())
	require.NoError(t, err)

	fields := make([]string, 0, len(results))
	for _, r := range results {
		fields = append(fields, r.Field)
		assert.True(t, r.Pass, r.Field)
	}
	assert.Equal(t, []string{
		domain.FieldExplanationDE,
		domain.FieldTranslationEN,
		domain.FieldExampleSentence,
		domain.FieldOpposite,
		domain.FieldNounForm,
	}, fields)

	// The example sentence is reported without asking the model.
	assert.Equal(t, []prompt.Kind{prompt.KindDefinition, prompt.KindTranslations, prompt.KindAntonyms, prompt.KindNounForm}, m.asked)
	assert.Equal(t, []string{}, results[2].Candidates)
	assert.Equal(t, "Verb: optimieren", m.inputs[3])
}

func TestValidateEntry_NounFormArticleMismatch(t *testing.T) {
	t.Parallel()

	m := &callerMock{answers: answers{prompt.KindNounForm: {"<der>Optimierung"}}}
	svc := newTestService(m)

	results, err := svc.ValidateEntry(context.Background(), domain.Entry{Word: "optimieren", NounForm: domain.Ptr("<die>Optimierung")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Pass)
}

func TestValidateEntry_VerbFormSkippedByDefault(t *testing.T) {
	t.Parallel()

	m := &callerMock{answers: answers{prompt.KindVerbForm: {"arbeiten"}}}
	svc := newTestService(m)

	e := domain.Entry{Word: "Arbeit", Article: domain.Ptr("die"), PluralForm: domain.Ptr("Arbeiten"), VerbForm: domain.Ptr("arbeiten")}
	results, err := svc.ValidateEntry(context.Background(), e)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, m.asked)
}

func TestValidateEntry_VerbForm(t *testing.T) {
	t.Parallel()

	m := &callerMock{answers: answers{prompt.KindVerbForm: {"arbeiten", "bearbeiten"}}}
	svc := NewService(m, prompt.NewManager(newTestLogger()), Config{TopK: 3, VerbForm: true}, newTestLogger())

	e := domain.Entry{Word: "Arbeit", Article: domain.Ptr("die"), PluralForm: domain.Ptr("Arbeiten"), VerbForm: domain.Ptr("Arbeiten")}
	results, err := svc.ValidateEntry(context.Background(), e)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.FieldVerbForm, results[0].Field)
	assert.True(t, results[0].Pass)
	assert.Equal(t, "Noun: Arbeit", m.inputs[0])
}

func TestValidateEntry_SkipsEmptyFields(t *testing.T) {
	t.Parallel()

	m := &callerMock{}
	svc := newTestService(m)

	results, err := svc.ValidateEntry(context.Background(), domain.Entry{Word: "x", Opposite: domain.Ptr("")})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, m.asked)
}

func TestValidateEntry_ErrorAbortsEntry(t *testing.T) {
	t.Parallel()

	exhausted := &llm.ExhaustedError{Attempts: 4, Last: errors.New("503")}
	m := &callerMock{
		answers: answers{
			prompt.KindDefinition:   {"optimieren"},
			prompt.KindTranslations: {"optimize"},
		},
		errs: map[prompt.Kind]error{prompt.KindAntonyms: exhausted},
	}
	svc := newTestService(m)

	results, err := svc.ValidateEntry(context.Background(), fullEntry())
	require.ErrorIs(t, err, llm.ErrRetriesExhausted)
	assert.Contains(t, err.Error(), "opposite")
	assert.Nil(t, results)
	assert.NotContains(t, m.asked, prompt.KindNounForm)
}

func TestValidateBatch_BestEffort(t *testing.T) {
	t.Parallel()

	m := &callerMock{
		answers: answers{
			prompt.KindDefinition:   {"Haus"},
			prompt.KindTranslations: {"junk"},
		},
		errs: map[prompt.Kind]error{prompt.KindAntonyms: &llm.ExhaustedError{Attempts: 1, Last: errors.New("x")}},
	}
	svc := newTestService(m)

	entries := []domain.Entry{
		{Word: "Haus", ExplanationDE: "Gebäude", TranslationEN: "house"},
		{Word: "schnell", Opposite: domain.Ptr("langsam")},
		{Word: "leer"},
	}
	b, err := svc.ValidateBatch(context.Background(), entries)
	require.NoError(t, err)

	require.Len(t, b.Reports, 1)
	assert.Equal(t, "Haus", b.Reports[0].Word)
	require.Len(t, b.Failed, 1)
	assert.Equal(t, "schnell", b.Failed[0].Word)
	assert.Equal(t, "Checks: 2, failed: 1", b.Summary().String())
}

func TestValidateBatch_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &callerMock{}
	svc := newTestService(m)

	_, err := svc.ValidateBatch(ctx, []domain.Entry{fullEntry()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.asked)
}

func TestRun_WritesReport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "validation_report.json")
	m := &callerMock{answers: answers{prompt.KindDefinition: {"Haus"}}}
	svc := newTestService(m)

	b, err := svc.Run(context.Background(), []domain.Entry{{Word: "Haus", ExplanationDE: "Gebäude", ExampleSentence: "Das Haus."}}, path)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{Checks: 2, Failed: 0}, b.Summary())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []domain.EntryReport
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 1)
	assert.Equal(t, b.Reports, got)
}

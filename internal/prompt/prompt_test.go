package prompt

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidationPrompt_Render(t *testing.T) {
	t.Parallel()

	p, err := NewValidationPrompt("General.", "Specific.", []string{"one", "two"}, "Haus", "Word")
	require.NoError(t, err)

	want := "Task: General.\nSpecific.\nRules:\n- one\n- two\n\nWord: Haus\n"
	assert.Equal(t, want, p.Render())
	assert.Equal(t, want, p.String())
	assert.Equal(t, "Haus", p.Input())
}

func TestValidationPrompt_IsImmutable(t *testing.T) {
	t.Parallel()

	rules := []string{"one"}
	p, err := NewValidationPrompt("General.", "Specific.", rules, "x", "Word")
	require.NoError(t, err)

	rules[0] = "changed"
	got := p.Rules()
	got[0] = "changed too"

	assert.Equal(t, []string{"one"}, p.Rules())
	assert.Contains(t, p.Render(), "- one\n")
}

func TestNewValidationPrompt_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		general string
		task    string
		rules   []string
		label   string
	}{
		{name: "no general task", general: " ", task: "t", rules: []string{"r"}, label: "Word"},
		{name: "no specific task", general: "g", task: "", rules: []string{"r"}, label: "Word"},
		{name: "no rules", general: "g", task: "t", rules: nil, label: "Word"},
		{name: "empty rule", general: "g", task: "t", rules: []string{""}, label: "Word"},
		{name: "no label", general: "g", task: "t", rules: []string{"r"}, label: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewValidationPrompt(tt.general, tt.task, tt.rules, "input", tt.label)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestManager_Templates(t *testing.T) {
	t.Parallel()

	m := NewManager(newTestLogger())

	tests := []struct {
		name      string
		build     func(string, int) (ValidationPrompt, error)
		input     string
		wantTask  string
		wantLabel string
		wantRules int
	}{
		{
			name:      "definition",
			build:     m.Definition,
			input:     "ein Gebäude zum Wohnen",
			wantTask:  "return the most likely 3 lemma entries.",
			wantLabel: "Definition (German): ein Gebäude zum Wohnen\n",
			wantRules: 3,
		},
		{
			name:      "antonyms",
			build:     m.Antonyms,
			input:     "schnell",
			wantTask:  "Return exactly 3 German antonyms",
			wantLabel: "Word: schnell\n",
			wantRules: 2,
		},
		{
			name:      "translations",
			build:     m.Translations,
			input:     "Haus",
			wantTask:  "Return exactly 3 concise English translations",
			wantLabel: "Word: Haus\n",
			wantRules: 3,
		},
		{
			name:      "noun form",
			build:     m.NounForm,
			input:     "optimieren",
			wantTask:  "return exactly 3 candidates, which are likely nominalizations INCLUDING article",
			wantLabel: "Verb: optimieren\n",
			wantRules: 3,
		},
		{
			name:      "verb form",
			build:     m.VerbForm,
			input:     "Arbeit",
			wantTask:  "return exactly 3 candidates, which are likely corresponding verbs",
			wantLabel: "Noun: Arbeit\n",
			wantRules: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := tt.build(tt.input, 3)
			require.NoError(t, err)

			text := p.Render()
			assert.True(t, strings.HasPrefix(text, "Task: "+GeneralTask+"\n"))
			assert.Contains(t, text, tt.wantTask)
			assert.True(t, strings.HasSuffix(text, "\n\n"+tt.wantLabel), text)
			assert.Len(t, p.Rules(), tt.wantRules)
		})
	}
}

func TestManager_Deterministic(t *testing.T) {
	t.Parallel()

	m := NewManager(newTestLogger())
	a, err := m.NounForm("arbeiten", 5)
	require.NoError(t, err)
	b, err := m.NounForm("arbeiten", 5)
	require.NoError(t, err)

	assert.Equal(t, a.Render(), b.Render())
	assert.Contains(t, a.Render(), "exactly 5 candidates")
	assert.Contains(t, a.Render(), "<article>Nominalization, e.g. <die>Arbeit.")
}

func TestManager_RejectsBadInput(t *testing.T) {
	t.Parallel()

	m := NewManager(newTestLogger())

	_, err := m.Definition("x", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.Build(Kind("lemma_from_sentence"), "x", 3)
	assert.Error(t, err)
}

func TestEntryPrompt(t *testing.T) {
	t.Parallel()

	text := Entry("optimieren")

	assert.Contains(t, text, `Target lemma (exact string): "optimieren"`)
	assert.Contains(t, text, `includes the exact substring "optimieren"`)
	assert.Contains(t, text, "pos: one of noun/verb/adj/adv/other.")
	assert.Contains(t, text, "set article to der/die/das")
	assert.Contains(t, text, "A1.1, A1.2, A2.1")
	assert.Contains(t, text, "C2.2 or null if uncertain")
	assert.Equal(t, text, Entry("optimieren"))
}

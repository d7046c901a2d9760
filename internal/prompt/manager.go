package prompt

import (
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// GeneralTask is shared by every validation question.
const GeneralTask = "You are validating a German vocabulary database."

// Kind names a validation question template.
type Kind string

const (
	KindDefinition   Kind = "definition"
	KindAntonyms     Kind = "antonyms"
	KindTranslations Kind = "translations"
	KindNounForm     Kind = "noun_form"
	KindVerbForm     Kind = "verb_form"
)

func (k Kind) String() string { return string(k) }

type template struct {
	task  string // format string taking top_k
	rules []string
	label string
}

var templates = map[Kind]template{
	KindDefinition: {
		task: "Given a dictionary-style German definition, return the most likely %d lemma entries.",
		rules: []string{
			"Candidates must be single German lemmas (or fixed expressions if needed).",
			"Do not include explanations.",
			"If multiple senses exist, prefer the most common B2-level lemma.",
		},
		label: "Definition (German)",
	},
	KindAntonyms: {
		task: "Return exactly %d German antonyms for the given lemma (or fixed expression).",
		rules: []string{
			"Antonyms must be plausible in common usage.",
			`If antonym is genuinely unclear, include an empty string "" in that slot.`,
		},
		label: "Word",
	},
	KindTranslations: {
		task: "Return exactly %d concise English translations for the German entry.",
		rules: []string{
			"Each candidate should be a short translation phrase.",
			"Prefer comma-free candidates.",
			"Do not include the word 'to' before verbs.",
		},
		label: "Word",
	},
	KindNounForm: {
		task: "Given a German verb lemma, return exactly %d candidates, which are likely nominalizations INCLUDING article.",
		rules: []string{
			"Candidates must be single German lemmas (or fixed expressions if needed).",
			"Do not include explanations.",
			"Format each candidate strictly as <article>Nominalization, e.g. <die>Arbeit.",
		},
		label: "Verb",
	},
	KindVerbForm: {
		task: "Given a German noun lemma, return exactly %d candidates, which are likely corresponding verbs.",
		rules: []string{
			"Candidates must be single German lemmas (or fixed expressions if needed).",
			"Do not include explanations.",
			"Return just the verbs in their 3rd person plural form, e.g. Arbeit -> arbeiten.",
		},
		label: "Noun",
	},
}

// Manager renders the five fixed validation templates. Only the input
// payload and top_k vary between calls.
type Manager struct {
	log *slog.Logger
}

// NewManager creates a Manager.
func NewManager(log *slog.Logger) *Manager {
	return &Manager{log: log.With("component", "prompt")}
}

// Build renders the template for kind.
func (m *Manager) Build(kind Kind, input string, topK int) (ValidationPrompt, error) {
	tpl, ok := templates[kind]
	if !ok {
		return ValidationPrompt{}, fmt.Errorf("prompt: unknown kind %q", kind)
	}
	if topK < 1 {
		return ValidationPrompt{}, domain.NewValidationError("top_k", "must be at least 1")
	}

	p, err := NewValidationPrompt(GeneralTask, fmt.Sprintf(tpl.task, topK), tpl.rules, input, tpl.label)
	if err != nil {
		return ValidationPrompt{}, fmt.Errorf("prompt %s: %w", kind, err)
	}
	m.log.Debug("validation prompt built", slog.String("kind", kind.String()), slog.String("prompt", p.Render()))
	return p, nil
}

// Definition asks for lemmas matching a German definition.
func (m *Manager) Definition(definition string, topK int) (ValidationPrompt, error) {
	return m.Build(KindDefinition, definition, topK)
}

// Antonyms asks for antonyms of a word.
func (m *Manager) Antonyms(word string, topK int) (ValidationPrompt, error) {
	return m.Build(KindAntonyms, word, topK)
}

// Translations asks for short English translations of a word.
func (m *Manager) Translations(word string, topK int) (ValidationPrompt, error) {
	return m.Build(KindTranslations, word, topK)
}

// NounForm asks for article-tagged nominalizations of a verb.
func (m *Manager) NounForm(verb string, topK int) (ValidationPrompt, error) {
	return m.Build(KindNounForm, verb, topK)
}

// VerbForm asks for verbs corresponding to a noun.
func (m *Manager) VerbForm(noun string, topK int) (ValidationPrompt, error) {
	return m.Build(KindVerbForm, noun, topK)
}

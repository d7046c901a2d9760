package prompt

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// Entry builds the generation prompt for one lemma. The lemma is embedded
// verbatim so the model can copy it into the example sentence.
func Entry(word string) string {
	return fmt.Sprintf(`You are generating a high-quality German vocabulary entry for a learning bot.

Target lemma (exact string): "%[1]s"

Return a single JSON object that follows the provided JSON schema.

Content requirements:
- pos: one of %[2]s.
- explanation_de: short, precise definition in German (no translation inside).
- translation_en: concise English translation (no leading "to" for verbs).
- example_sentence: a natural German sentence that includes the exact substring "%[1]s" at least once.
  Use a sentence where a learner could infer the word from context.
- opposite: a likely antonym (German), or null if not sensible.
- article/plural_form rules:
  - If pos is noun: set article to %[3]s and plural_form to the plural.
  - Else: article must be null and plural_form must be null.
- noun_form/verb_form rules:
  - If pos is verb: noun_form must be the nominalization including article in the format "<die>Nominalisierung"
    (choose the correct article). verb_form must be null.
  - If pos is noun: verb_form must be a natural corresponding verb infinitive (e.g. "Optimierung" -> "optimieren"),
    noun_form must be null.
  - Else: noun_form and verb_form must be null.
- level: choose the most likely CEFR sublevel from: %[4]s or null if uncertain.

Formatting rules:
- Output only JSON that conforms to the schema.
- Do not include markdown.`,
		word,
		strings.Join(domain.PartsOfSpeech(), "/"),
		strings.Join(domain.Articles(), "/"),
		strings.Join(domain.CEFRSublevels, ", "),
	)
}

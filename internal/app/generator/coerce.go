package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// coerce maps the model answer onto the lexeme variant for its part of
// speech. Fields the variant does not carry are dropped. The requested
// lemma always wins over the word the model echoed back.
func (s *Service) coerce(ctx context.Context, word string, raw rawEntry) (domain.Lexeme, error) {
	core := domain.Core{
		Word:            word,
		ExplanationDE:   raw.ExplanationDE,
		TranslationEN:   raw.TranslationEN,
		ExampleSentence: raw.ExampleSentence,
		Opposite:        raw.Opposite,
		Level:           raw.Level,
	}

	switch domain.PartOfSpeech(strings.ToLower(strings.TrimSpace(raw.POS))) {
	case domain.PartOfSpeechNoun:
		n, err := domain.NewNoun(core, domain.Article(domain.Deref(raw.Article)), domain.Deref(raw.PluralForm), raw.VerbForm)
		if err == nil {
			return n, nil
		}
		s.log.DebugContext(ctx, "noun without usable article or plural, storing as other",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return domain.NewOther(core)
	case domain.PartOfSpeechVerb:
		return domain.NewVerb(core, raw.NounForm)
	case domain.PartOfSpeechAdjective:
		return domain.NewAdjective(core)
	case domain.PartOfSpeechAdverb:
		return domain.NewAdverb(core)
	default:
		return domain.NewOther(core)
	}
}

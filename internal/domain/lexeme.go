package domain

import (
	"strings"
)

// Lexeme is an entry tagged with its part of speech. Each variant carries
// only the fields its tag allows; Entry flattens it into the stored shape.
type Lexeme interface {
	PartOfSpeech() PartOfSpeech
	Entry() Entry
}

var (
	_ Lexeme = Noun{}
	_ Lexeme = Verb{}
	_ Lexeme = Plain{}
)

// Core holds the fields shared by every part of speech.
type Core struct {
	Word            string `json:"word" validate:"required"`
	ExplanationDE   string
	TranslationEN   string
	ExampleSentence string
	Opposite        *string
	Level           *string
}

// normalized trims the core and guarantees that the example sentence
// contains the word.
func (c Core) normalized() (Core, error) {
	c.Word = NormBasic(c.Word)
	if err := CheckStruct(c); err != nil {
		return Core{}, err
	}
	c.ExplanationDE = strings.TrimSpace(c.ExplanationDE)
	c.TranslationEN = strings.TrimSpace(c.TranslationEN)
	c.ExampleSentence = EnsureExample(c.ExampleSentence, c.Word)
	c.Opposite = optional(c.Opposite)
	c.Level = optional(c.Level)
	return c, nil
}

func (c Core) entry() Entry {
	return Entry{
		Word:            c.Word,
		ExplanationDE:   c.ExplanationDE,
		TranslationEN:   c.TranslationEN,
		ExampleSentence: c.ExampleSentence,
		Opposite:        c.Opposite,
		Level:           c.Level,
	}
}

// EnsureExample returns sentence unchanged when it contains word, otherwise
// appends a fixed clause naming the word.
func EnsureExample(sentence, word string) string {
	sentence = strings.TrimSpace(sentence)
	if strings.Contains(sentence, word) {
		return sentence
	}
	clause := "(Stichwort: " + word + ")"
	if sentence == "" {
		return clause
	}
	return sentence + " " + clause
}

// Noun carries the article, the plural and an optional related verb.
type Noun struct {
	Core
	Article  Article
	Plural   string
	VerbForm *string
}

// NewNoun builds a noun lexeme. The article must be der, die or das and the
// plural must be non-empty.
func NewNoun(core Core, article Article, plural string, verbForm *string) (Noun, error) {
	core, err := core.normalized()
	if err != nil {
		return Noun{}, err
	}
	article = Article(strings.ToLower(strings.TrimSpace(string(article))))
	if !article.IsValid() {
		return Noun{}, NewValidationError(FieldArticle, "must be der, die or das")
	}
	plural = NormBasic(plural)
	if plural == "" {
		return Noun{}, NewValidationError(FieldPluralForm, "required for nouns")
	}
	return Noun{Core: core, Article: article, Plural: plural, VerbForm: optional(verbForm)}, nil
}

func (Noun) PartOfSpeech() PartOfSpeech { return PartOfSpeechNoun }

func (n Noun) Entry() Entry {
	e := n.Core.entry()
	e.Article = Ptr(n.Article.String())
	e.PluralForm = Ptr(n.Plural)
	e.VerbForm = n.VerbForm
	return e
}

// Verb carries an optional nominalization in "<article>Noun" form.
type Verb struct {
	Core
	NounForm *string
}

// NewVerb builds a verb lexeme. A nominalization without the bracketed
// article gets DefaultNominalizationArticle.
func NewVerb(core Core, nounForm *string) (Verb, error) {
	core, err := core.normalized()
	if err != nil {
		return Verb{}, err
	}
	nounForm = optional(nounForm)
	if nounForm != nil {
		nf := NormBasic(*nounForm)
		if !HasArticlePrefix(nf) {
			nf = "<" + DefaultNominalizationArticle.String() + ">" + nf
		}
		nounForm = &nf
	}
	return Verb{Core: core, NounForm: nounForm}, nil
}

func (Verb) PartOfSpeech() PartOfSpeech { return PartOfSpeechVerb }

func (v Verb) Entry() Entry {
	e := v.Core.entry()
	e.NounForm = v.NounForm
	return e
}

// Plain is a lexeme whose part of speech carries no extra forms:
// adjectives, adverbs and everything else.
type Plain struct {
	Core
	pos PartOfSpeech
}

// NewAdjective builds an adjective lexeme.
func NewAdjective(core Core) (Plain, error) { return newPlain(core, PartOfSpeechAdjective) }

// NewAdverb builds an adverb lexeme.
func NewAdverb(core Core) (Plain, error) { return newPlain(core, PartOfSpeechAdverb) }

// NewOther builds a lexeme for any other part of speech.
func NewOther(core Core) (Plain, error) { return newPlain(core, PartOfSpeechOther) }

func newPlain(core Core, pos PartOfSpeech) (Plain, error) {
	core, err := core.normalized()
	if err != nil {
		return Plain{}, err
	}
	return Plain{Core: core, pos: pos}, nil
}

func (p Plain) PartOfSpeech() PartOfSpeech { return p.pos }

func (p Plain) Entry() Entry { return p.Core.entry() }

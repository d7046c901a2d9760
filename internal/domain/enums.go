package domain

// PartOfSpeech is the grammatical category the model assigns to a lemma.
// It drives entry coercion and is never persisted.
type PartOfSpeech string

const (
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechAdjective PartOfSpeech = "adj"
	PartOfSpeechAdverb    PartOfSpeech = "adv"
	PartOfSpeechOther     PartOfSpeech = "other"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb, PartOfSpeechOther:
		return true
	}
	return false
}

// PartsOfSpeech returns every valid part of speech in schema order.
func PartsOfSpeech() []string {
	return []string{
		string(PartOfSpeechNoun), string(PartOfSpeechVerb), string(PartOfSpeechAdjective),
		string(PartOfSpeechAdverb), string(PartOfSpeechOther),
	}
}

// Article is a German definite article.
type Article string

const (
	ArticleDer Article = "der"
	ArticleDie Article = "die"
	ArticleDas Article = "das"
)

// DefaultNominalizationArticle is used when a nominalization comes back
// without its bracketed article.
const DefaultNominalizationArticle = ArticleDie

func (a Article) String() string { return string(a) }

func (a Article) IsValid() bool {
	switch a {
	case ArticleDer, ArticleDie, ArticleDas:
		return true
	}
	return false
}

// Articles returns the valid articles in schema order.
func Articles() []string {
	return []string{string(ArticleDer), string(ArticleDie), string(ArticleDas)}
}

// CEFRSublevels lists the level hints offered to the model.
var CEFRSublevels = []string{
	"A1.1", "A1.2",
	"A2.1", "A2.2",
	"B1.1", "B1.2",
	"B2.1", "B2.2",
	"C1.1", "C1.2",
	"C2.1", "C2.2",
}

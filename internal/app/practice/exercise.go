package practice

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// ExerciseType selects what is asked about an entry.
type ExerciseType string

const (
	TypeGermanToEnglish    ExerciseType = "g2e"
	TypeEnglishToGerman    ExerciseType = "e2g"
	TypeSentence           ExerciseType = "sentence"
	TypeDefinitionToGerman ExerciseType = "d2g"
	TypeOppositeToGerman   ExerciseType = "o2g"
)

// AllTypes lists every exercise type.
var AllTypes = []ExerciseType{
	TypeGermanToEnglish,
	TypeEnglishToGerman,
	TypeSentence,
	TypeDefinitionToGerman,
	TypeOppositeToGerman,
}

func (t ExerciseType) String() string { return string(t) }

// IsValid reports whether t is a known exercise type.
func (t ExerciseType) IsValid() bool {
	switch t {
	case TypeGermanToEnglish, TypeEnglishToGerman, TypeSentence, TypeDefinitionToGerman, TypeOppositeToGerman:
		return true
	}
	return false
}

// ParseType maps the query value to an ExerciseType. An empty value means
// any type.
func ParseType(s string) (ExerciseType, error) {
	t := ExerciseType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.IsValid() {
		return t, nil
	}
	return "", domain.NewValidationError("type", "must be one of g2e, e2g, sentence, d2g, o2g")
}

const blank = "_______"

// Exercise is one question waiting for an answer.
type Exercise struct {
	ID        uuid.UUID
	Type      ExerciseType
	Question  string
	Answer    string
	Entry     domain.Entry
	CreatedAt time.Time
}

// Verdict is the outcome of answering an exercise.
type Verdict struct {
	Correct bool
	Message string
	Answer  string
}

// Check compares answer with the expected one, trimmed and case-insensitive.
// For g2e any of the comma-separated translations is accepted.
func (e Exercise) Check(answer string) Verdict {
	got := strings.ToLower(strings.TrimSpace(answer))

	var ok bool
	if e.Type == TypeGermanToEnglish {
		for _, a := range strings.Split(e.Answer, ",") {
			if got == strings.ToLower(strings.TrimSpace(a)) {
				ok = true
				break
			}
		}
	} else {
		ok = got == strings.ToLower(strings.TrimSpace(e.Answer))
	}

	if ok {
		return Verdict{Correct: true, Message: "Congrats! You got the right answer.", Answer: e.Answer}
	}
	return Verdict{Message: "So close! The right answer is: " + e.Answer, Answer: e.Answer}
}

// eligible reports whether e carries what exercise type t needs.
func eligible(t ExerciseType, e domain.Entry) bool {
	if e.Word == "" {
		return false
	}
	switch t {
	case TypeGermanToEnglish, TypeEnglishToGerman:
		return e.TranslationEN != ""
	case TypeSentence:
		return strings.Contains(strings.ToLower(e.ExampleSentence), strings.ToLower(e.Word))
	case TypeDefinitionToGerman:
		return e.ExplanationDE != ""
	case TypeOppositeToGerman:
		return domain.Deref(e.Opposite) != ""
	}
	return false
}

// question renders the prompt and the expected answer for e.
func question(t ExerciseType, e domain.Entry) (q, answer string) {
	switch t {
	case TypeGermanToEnglish:
		return "Translate this into English: " + e.Word, e.TranslationEN
	case TypeEnglishToGerman:
		return "Translate this into German (include article if it's a noun): " + e.TranslationEN, e.WithArticle()
	case TypeSentence:
		return "Fill in the missing word:\n\n" + censor(e.ExampleSentence, e.Word), e.Word
	case TypeDefinitionToGerman:
		return "What word matches this definition?\n\n" + e.ExplanationDE, e.Word
	case TypeOppositeToGerman:
		return "What is the opposite of: " + domain.Deref(e.Opposite) + "?", e.Word
	}
	return "", ""
}

// censor replaces every case-insensitive occurrence of word with a blank.
func censor(sentence, word string) string {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(sentence, blank)
}

// option renders e the way an answer to type t is written. Translations
// contribute only their first alternative.
func option(t ExerciseType, e domain.Entry) string {
	switch t {
	case TypeGermanToEnglish:
		first, _, _ := strings.Cut(e.TranslationEN, ",")
		return strings.TrimSpace(first)
	case TypeEnglishToGerman:
		return e.WithArticle()
	default:
		return e.Word
	}
}

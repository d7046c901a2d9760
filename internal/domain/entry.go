package domain

import "strings"

// Entry field names as they appear in the word database and in reports.
const (
	FieldWord            = "word"
	FieldExplanationDE   = "explanation_de"
	FieldTranslationEN   = "translation_en"
	FieldExampleSentence = "example_sentence"
	FieldOpposite        = "opposite"
	FieldArticle         = "article"
	FieldLevel           = "level"
	FieldPluralForm      = "plural_form"
	FieldNounForm        = "noun_form"
	FieldVerbForm        = "verb_form"
)

// Entry is the canonical vocabulary record. Nullable fields are pointers so
// that the JSON form keeps explicit nulls.
type Entry struct {
	Word            string  `json:"word"             validate:"required"`
	ExplanationDE   string  `json:"explanation_de"`
	TranslationEN   string  `json:"translation_en"`
	ExampleSentence string  `json:"example_sentence"`
	Opposite        *string `json:"opposite"`
	Article         *string `json:"article"          validate:"omitempty,oneof=der die das"`
	Level           *string `json:"level"`
	PluralForm      *string `json:"plural_form"`
	NounForm        *string `json:"noun_form"`
	VerbForm        *string `json:"verb_form"`
}

// Validate checks the field tags and the cross-field rules tied to the
// part of speech the entry was generated from.
func (e Entry) Validate() error {
	if err := CheckStruct(e); err != nil {
		return err
	}

	var errs []FieldError
	if (e.Article == nil) != (e.PluralForm == nil) {
		errs = append(errs, FieldError{Field: FieldPluralForm, Message: "article and plural_form must be set together"})
	}
	if e.NounForm != nil && e.VerbForm != nil {
		errs = append(errs, FieldError{Field: FieldNounForm, Message: "noun_form and verb_form are exclusive"})
	}
	if e.NounForm != nil && e.Article != nil {
		errs = append(errs, FieldError{Field: FieldNounForm, Message: "noun_form is only valid for verbs"})
	}
	if e.VerbForm != nil && e.Article == nil {
		errs = append(errs, FieldError{Field: FieldVerbForm, Message: "verb_form is only valid for nouns"})
	}
	if e.ExampleSentence != "" && !strings.Contains(e.ExampleSentence, e.Word) {
		errs = append(errs, FieldError{Field: FieldExampleSentence, Message: "must contain the word"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsNoun reports whether the entry carries noun forms.
func (e Entry) IsNoun() bool { return e.Article != nil }

// WithArticle returns "article word" for nouns and the bare word otherwise.
func (e Entry) WithArticle() string {
	if e.Article != nil && *e.Article != "" {
		return *e.Article + " " + e.Word
	}
	return e.Word
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to s.
func Ptr(s string) *string { return &s }

// optional trims s and maps empty values to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Package merger folds freshly generated entries into the word database.
package merger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// Stats describes what a merge changed.
type Stats struct {
	WordsBefore  int
	WordsAfter   int
	WordsAdded   int
	WordsUpdated int
	// FieldUpdates counts overwritten values per field name.
	FieldUpdates map[string]int
}

// fieldOrder is the order fields are listed in the report.
var fieldOrder = []string{
	domain.FieldExplanationDE,
	domain.FieldTranslationEN,
	domain.FieldExampleSentence,
	domain.FieldOpposite,
	domain.FieldArticle,
	domain.FieldLevel,
	domain.FieldPluralForm,
	domain.FieldNounForm,
	domain.FieldVerbForm,
}

// Report renders the update report.
func (s Stats) Report() string {
	var b strings.Builder
	b.WriteString("--- Update Report ---\n")
	fmt.Fprintf(&b, "Words (Before): %d\n", s.WordsBefore)
	fmt.Fprintf(&b, "Words (After):  %d\n", s.WordsAfter)
	fmt.Fprintf(&b, "Words Added:    %d\n", s.WordsAdded)
	fmt.Fprintf(&b, "Words Updated:  %d\n", s.WordsUpdated)
	b.WriteString("\nField Update Breakdown:\n")
	if len(s.FieldUpdates) == 0 {
		b.WriteString("  (No existing fields were modified)\n")
		return b.String()
	}
	for _, f := range fieldOrder {
		if n := s.FieldUpdates[f]; n > 0 {
			fmt.Fprintf(&b, "  - '%s': updated %d times\n", f, n)
		}
	}
	return b.String()
}

// Merge applies incoming onto existing and returns the merged list.
// Entries are matched on the exact word. A new word is appended as is and
// later duplicates in incoming update the appended copy. For a known word,
// every incoming field that is set and differs overwrites the stored one;
// empty strings and nulls never erase data. existing is not modified.
func Merge(existing, incoming []domain.Entry) ([]domain.Entry, Stats) {
	out := slices.Clone(existing)
	if out == nil {
		out = []domain.Entry{}
	}
	stats := Stats{
		WordsBefore:  len(existing),
		FieldUpdates: make(map[string]int),
	}

	index := make(map[string]int, len(out))
	for i, e := range out {
		if e.Word == "" {
			continue
		}
		if _, ok := index[e.Word]; !ok {
			index[e.Word] = i
		}
	}

	for _, in := range incoming {
		if in.Word == "" {
			continue
		}
		i, ok := index[in.Word]
		if !ok {
			out = append(out, in)
			index[in.Word] = len(out) - 1
			stats.WordsAdded++
			continue
		}

		changed := apply(&out[i], in)
		for _, f := range changed {
			stats.FieldUpdates[f]++
		}
		if len(changed) > 0 {
			stats.WordsUpdated++
		}
	}

	stats.WordsAfter = len(out)
	return out, stats
}

// apply copies the set fields of in onto dst and returns the names of the
// fields that changed.
func apply(dst *domain.Entry, in domain.Entry) []string {
	var changed []string
	setString := func(field string, cur *string, v string) {
		if v != "" && *cur != v {
			*cur = v
			changed = append(changed, field)
		}
	}
	setOptional := func(field string, cur **string, v *string) {
		if v == nil || *v == "" {
			return
		}
		if *cur == nil || **cur != *v {
			val := *v
			*cur = &val
			changed = append(changed, field)
		}
	}

	setString(domain.FieldExplanationDE, &dst.ExplanationDE, in.ExplanationDE)
	setString(domain.FieldTranslationEN, &dst.TranslationEN, in.TranslationEN)
	setString(domain.FieldExampleSentence, &dst.ExampleSentence, in.ExampleSentence)
	setOptional(domain.FieldOpposite, &dst.Opposite, in.Opposite)
	setOptional(domain.FieldArticle, &dst.Article, in.Article)
	setOptional(domain.FieldLevel, &dst.Level, in.Level)
	setOptional(domain.FieldPluralForm, &dst.PluralForm, in.PluralForm)
	setOptional(domain.FieldNounForm, &dst.NounForm, in.NounForm)
	setOptional(domain.FieldVerbForm, &dst.VerbForm, in.VerbForm)
	return changed
}

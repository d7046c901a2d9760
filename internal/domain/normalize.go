package domain

import (
	"regexp"
	"strings"
)

var (
	articleFormRe   = regexp.MustCompile(`^<([^>]+)>(.+)$`)
	reflexivePrefix = regexp.MustCompile(`(?i)^sich\s+`)
)

// NormBasic trims s and collapses every internal whitespace run into one space.
func NormBasic(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormWord normalizes a lemma and drops the "|" marks used for separable
// verb prefixes, so "auf|hören" and "aufhören" become the same token.
func NormWord(w string) string {
	return strings.ReplaceAll(NormBasic(w), "|", "")
}

// NormReflexiveVerb normalizes a verb and strips a leading reflexive "sich".
func NormReflexiveVerb(v string) string {
	return reflexivePrefix.ReplaceAllString(NormWord(v), "")
}

// NormArticleForm normalizes an article-tagged noun such as "<die>Arbeit".
// Article and noun are lower-cased independently and re-emitted in the same
// bracketed form, so "<die>Arbeit" equals "<die>arbeit" but not "<der>Arbeit".
// Strings without the bracket prefix are lower-cased as a whole.
func NormArticleForm(s string) string {
	s = NormBasic(s)
	m := articleFormRe.FindStringSubmatch(s)
	if m == nil {
		return strings.ToLower(s)
	}
	art := strings.ToLower(strings.TrimSpace(m[1]))
	noun := strings.ToLower(strings.TrimSpace(m[2]))
	return "<" + art + ">" + noun
}

// HasArticlePrefix reports whether s is written as "<article>Noun".
func HasArticlePrefix(s string) bool {
	return articleFormRe.MatchString(NormBasic(s))
}

// LemmaKey is the comparison key for lemma identity: NormWord, lower-cased.
// German capitalization and separable-verb notation do not distinguish lemmas.
func LemmaKey(w string) string {
	return strings.ToLower(NormWord(w))
}

package retrieval

import (
	"regexp"

	"github.com/lukebdev/termlink/internal/core"
)

// Language is inferred from a lightweight content-prefix convention
// ("EN: ..." / "[fi] ..."), not from stored metadata.
var (
	enPrefixRe = regexp.MustCompile(`(?i)^\s*(EN:|\[en\])`)
	fiPrefixRe = regexp.MustCompile(`(?i)^\s*(FI:|\[fi\])`)
)

// DetectLang returns "en", "fi" or "" when the content carries no tag.
func DetectLang(content string) string {
	switch {
	case enPrefixRe.MatchString(content):
		return core.LocaleEN
	case fiPrefixRe.MatchString(content):
		return core.LocaleFI
	default:
		return ""
	}
}

// Pronoun patterns per locale, used to spot coreferential questions
// ("what does he do?") that embed poorly without a subject.
var (
	enPronounRe = regexp.MustCompile(`(?i)\b(he|him|his)\b`)
	fiPronounRe = regexp.MustCompile(`(?i)\b(hän|hänen|häntä|he|heidän|heitä)\b`)
)

// ExpandPronouns appends a disambiguating subject hint for embedding
// only. The user's literal utterance is left untouched for the
// completion step.
func ExpandPronouns(query, locale, subject string) string {
	re := enPronounRe
	if locale == core.LocaleFI {
		re = fiPronounRe
	}
	if re.MatchString(query) {
		return query + " (about " + subject + ")"
	}
	return query
}

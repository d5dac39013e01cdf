package screening

import (
	"regexp"
	"strings"
)

// NoPatternToken is the canonical token for answers meaning "no pattern visible".
const NoPatternToken = "nothing"

// noPatternSynonyms maps trimmed, lowercased inputs to NoPatternToken.
var noPatternSynonyms = map[string]struct{}{
	"nothing": {},
	"none":    {},
	"no":      {},
	"n/a":     {},
	"na":      {},
	"blank":   {},
	"empty":   {},
	"0":       {},
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Normalize turns raw free-text input into a canonical comparable token. Two
// raw inputs are considered the same answer iff their canonical tokens are
// equal. The function is total and deterministic, and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	token := strings.ToLower(text)
	token = strings.TrimSpace(token)
	if _, ok := noPatternSynonyms[token]; ok {
		return NoPatternToken
	}
	token = disallowedChars.ReplaceAllString(token, "")
	token = whitespaceRuns.ReplaceAllString(token, " ")
	// Stripping punctuation can expose surrounding whitespace, e.g. "! x".
	return strings.TrimSpace(token)
}

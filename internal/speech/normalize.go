package speech

import (
	"regexp"
	"strings"
)

// Spoken punctuation cues, replaced in this order. "ponto final" folds into
// the "ponto" pattern so the longer cue wins.
var (
	rePonto        = regexp.MustCompile(`(?i)\s+ponto(?: final)?\b`)
	reVirgula      = regexp.MustCompile(`(?i)\s+vírgula\b`)
	reExclamacao   = regexp.MustCompile(`(?i)\s+exclamação\b`)
	reInterrogacao = regexp.MustCompile(`(?i)\s+interrogação\b`)
	reSpacePunct   = regexp.MustCompile(`\s+([,.!?])`)
	reMultiSpace   = regexp.MustCompile(`\s{2,}`)
)

// Normalize replaces spoken-word punctuation cues with literal marks, removes
// whitespace left hanging before punctuation, collapses whitespace runs and
// trims. Deterministic and idempotent.
func Normalize(text string) string {
	text = rePonto.ReplaceAllString(text, ".")
	text = reVirgula.ReplaceAllString(text, ",")
	text = reExclamacao.ReplaceAllString(text, "!")
	text = reInterrogacao.ReplaceAllString(text, "?")
	text = reSpacePunct.ReplaceAllString(text, "$1")
	text = reMultiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

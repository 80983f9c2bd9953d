package transcribe

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	standaloneI     = regexp.MustCompile(`\bi\b`)
	contractionRe   = regexp.MustCompile(`(\w)'re\b`)
	contractionS    = regexp.MustCompile(`(\w)'s\b`)
	contractionT    = regexp.MustCompile(`(\w)'t\b`)
	spaceBeforePunc = regexp.MustCompile(`\s+([.,?!])`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// Normalize cleans up a transcribed English segment. The steps run in a fixed
// order: capitalize the first character, ensure terminal punctuation, fix the
// standalone "i", expand 're/'s/'t contractions, strip whitespace before
// punctuation, and collapse whitespace runs.
//
// The 's expansion conflates possessives with "is" ("the cat's toy" becomes
// "the cat is toy"); this matches the source normalization rules and is a known
// limitation, not a bug to fix here. Normalize is idempotent on its own output.
func Normalize(text string) string {
	if text != "" {
		r, size := utf8.DecodeRuneInString(text)
		text = string(unicode.ToUpper(r)) + text[size:]
	}

	if text != "" && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") &&
		!strings.HasSuffix(text, "!") && !strings.HasSuffix(text, ":") {
		text += "."
	}

	text = standaloneI.ReplaceAllString(text, "I")
	text = contractionRe.ReplaceAllString(text, "$1 are")
	text = contractionS.ReplaceAllString(text, "$1 is")
	text = contractionT.ReplaceAllString(text, "$1 not")

	text = spaceBeforePunc.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	return text
}

// JoinSegments concatenates segment texts in order with single-space
// separators, forming the full user utterance. Zero segments join to "".
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

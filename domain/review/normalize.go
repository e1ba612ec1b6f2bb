package review

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks (diacritics), and
// recomposes. "sécurité" becomes "securite".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes free text for embedding and comparison: lowercase,
// diacritics stripped, punctuation outside the safe set replaced with
// spaces, whitespace collapsed and trimmed. Empty input yields "".
// Idempotent and pure.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case safeRune(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// safeRune reports whether the punctuation rune survives normalization.
// The set matches what the embedding model treats as meaningful in code
// fragments: - _ . ( ) { } [ ]
func safeRune(r rune) bool {
	switch r {
	case '-', '_', '.', '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}

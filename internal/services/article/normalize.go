package article

import (
	"strings"
	"unicode"
)

// NormalizeText turns extracted page text into one phrase per line.
// Each line is trimmed, split on double spaces (headline fragments that the
// page lays out side by side), trimmed again, and blanks are dropped.
func NormalizeText(text string) string {
	var chunks []string
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		for _, phrase := range strings.Split(strings.TrimFunc(line, isSpace), "  ") {
			if phrase = strings.TrimFunc(phrase, isSpace); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// isLineBreak reports the Unicode line boundaries, including \v, \f, the
// ASCII separators and NEL, LS and PS.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// isSpace is unicode.IsSpace widened to the ASCII information separators
// \x1c through \x1f, which also count as whitespace when trimming.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

package htmlutil

import (
	"strings"
	"unicode"
)

// CountWords counts the words in plain text. Runs of letters and digits are
// one word each, apostrophes and hyphens inside a word don't split it, and
// every Han or kana character counts as a word of its own since those
// scripts don't separate words with spaces.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if !inWord {
				count++
				inWord = true
			}
		case inWord && (r == '\'' || r == '-' || r == '’'):
		default:
			inWord = false
		}
	}
	return count
}

// CountHTMLWords counts the words in the visible text of an HTML fragment.
func CountHTMLWords(s string) int {
	return CountWords(StripTags(s))
}

// TruncateRunes shortens s to at most n runes. A non-positive n leaves s
// untouched.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return strings.TrimSpace(s[:pos])
		}
		i++
	}
	return s
}

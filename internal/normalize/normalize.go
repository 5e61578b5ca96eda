// Package normalize holds the text transforms that turn raw input into a
// token sequence: Unicode lowercasing, possessive stripping, punctuation
// stripping, and whitespace splitting. Each step is exported so callers and
// tests can run them in isolation; Tokenize fixes their order.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower applies full Unicode lowercasing. A Caser is stateful, so one is
// built per call.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// IsWordRune reports whether r is a word character: a letter, a number, or
// an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// IsSpace reports whether r separates tokens. The ASCII information
// separators U+001C..U+001F count as whitespace in addition to
// unicode.IsSpace.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// StripPossessives replaces every "'s" that ends at a word boundary (end of
// text, or followed by a non-word rune) with a single space. Other
// contractions ("'t", "'re") are left alone.
func StripPossessives(s string) string {
	if !strings.Contains(s, "'s") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\'' && i+1 < len(s) && s[i+1] == 's' {
			next := i + 2
			if next == len(s) {
				b.WriteByte(' ')
				i = next
				continue
			}
			if r, _ := utf8.DecodeRuneInString(s[next:]); !IsWordRune(r) {
				b.WriteByte(' ')
				i = next
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// StripPunctuation replaces every rune that is neither a word rune nor
// whitespace with a single space.
func StripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if IsWordRune(r) || IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// Fields splits s on runs of whitespace.
func Fields(s string) []string {
	return strings.FieldsFunc(s, IsSpace)
}

// Tokenize lowercases text and splits it into raw tokens. With
// keepPunctuation the text is split on whitespace only; otherwise
// possessives are stripped first, then punctuation, then the text is split.
func Tokenize(text string, keepPunctuation bool) []string {
	text = Lower(text)
	if keepPunctuation {
		return Fields(text)
	}
	text = StripPossessives(text)
	text = StripPunctuation(text)
	return Fields(text)
}

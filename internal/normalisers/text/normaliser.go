// Package text builds comparison keys from free text: accents stripped,
// lowercased, punctuation removed, tokenised.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mojibake maps common UTF-8-read-as-Latin-1 sequences back to their rune.
var mojibake = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"Ã©", "é",
	"Ã¨", "è",
)

// StripAccents removes diacritics: "Génie" becomes "Genie".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// RemovePunctuation replaces punctuation and symbols by single spaces.
func RemovePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Tokens returns the normalised tokens of s.
func Tokens(s string) []string {
	s = mojibake.Replace(s)
	s = strings.ToLower(StripAccents(s))
	return strings.Fields(RemovePunctuation(s))
}

// Normalize returns the normalised tokens of s joined by single spaces.
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Compact returns the normalised form of s with spaces removed, for ids.
func Compact(s string) string {
	return strings.Join(Tokens(s), "")
}

// TitleCase capitalises each word for display.
func TitleCase(s string) string {
	return cases.Title(language.French).String(s)
}

// ContainsPhrase reports whether the token sequence phrase appears,
// contiguously, in tokens.
func ContainsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, p := range phrase {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer folds text to a comparable form: accents stripped,
// compatibility characters (fullwidth, ligatures) composed and lowercase.
// This is not safe for concurrent use.
type TextNormalizer struct {
	transformer transform.Transformer
}

// NewTextNormalizer creates a new TextNormalizer instance.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		transformer: transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Map(unicode.ToLower),
			norm.NFKC,
		),
	}
}

// Normalize cleans up text using the normalizer.
// Returns empty string if normalization fails or input is empty.
func (n *TextNormalizer) Normalize(s string) string {
	s = CompressWhitespace(s)
	if s == "" {
		return ""
	}

	result, _, err := transform.String(n.transformer, s)
	if err != nil {
		return ""
	}

	return result
}

// Contains reports whether substr appears in s after both are normalized.
// Falls back to a plain case-insensitive match when normalization fails.
func (n *TextNormalizer) Contains(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}

	normalizedS := n.Normalize(s)
	normalizedSubstr := n.Normalize(substr)

	if normalizedS == "" || normalizedSubstr == "" {
		return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
	}

	return strings.Contains(normalizedS, normalizedSubstr)
}

// ContainsWord reports whether any normalized word of s equals word.
func (n *TextNormalizer) ContainsWord(s, word string) bool {
	target := n.Normalize(word)
	if target == "" {
		return false
	}

	for _, w := range Words(n.Normalize(s)) {
		if w == target {
			return true
		}
	}

	return false
}

package usecase

import "gita-assistant/internal/domain/entity"

const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

func isDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}

// IsDevanagariScript reports whether text contains at least one character of the
// Devanagari Unicode block. It is a script heuristic, not a language identifier:
// Marathi or Nepali input is reported as Devanagari and romanized Hindi is not.
func IsDevanagariScript(text string) bool {
	for _, r := range text {
		if isDevanagari(r) {
			return true
		}
	}
	return false
}

// DetectLanguage maps IsDevanagariScript onto a Language.
func DetectLanguage(text string) entity.Language {
	if IsDevanagariScript(text) {
		return entity.LanguageHindi
	}
	return entity.LanguageEnglish
}

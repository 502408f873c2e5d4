package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	urlUnsafeRegex  = regexp.MustCompile(`[<>"\\\s]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// DisplayName cleans a participant display name: markup and control
// characters are removed and runs of whitespace collapse to a single space
func DisplayName(input string) string {
	input = htmlTagRegex.ReplaceAllString(input, "")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	input = StripControlCharacters(input)
	return strings.TrimSpace(input)
}

// URL trims an avatar URL and removes characters that cannot appear unescaped in one
func URL(input string) string {
	return urlUnsafeRegex.ReplaceAllString(strings.TrimSpace(input), "")
}

// StripControlCharacters removes control characters from string
func StripControlCharacters(input string) string {
	var result strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

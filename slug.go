package docpack

import (
	"strings"
	"unicode"
)

// Slug creates a URL-safe identifier from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func Slug(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}

package htmltext

import "unicode/utf8"

// Truncate cuts text to at most limit characters and appends marker when it
// had to cut. A non-positive limit disables truncation.
func Truncate(text string, limit int, marker string) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + marker
}

// Length counts characters the same way Truncate does.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

package utils

import (
	"fmt"
	"strings"
)

// FormatRuntime converts a runtime in minutes to an "H:MM" string, e.g. 107 -> "1:47".
func FormatRuntime(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// asciiPunctuation mirrors the standard punctuation set, extended with the
// smart quotes Notion substitutes into titles.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~“‘”’"

// StripPunctuation removes all punctuation (including smart quotes) from a string.
func StripPunctuation(subject string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, subject)
}

// TitlesMatch compares two movie titles ignoring case and punctuation, so
// "Bardo, False Chronicle..." matches the punctuation-stripped variant a
// search API returns.
func TitlesMatch(a, b string) bool {
	return StripPunctuation(strings.ToLower(a)) == StripPunctuation(strings.ToLower(b))
}

// Capitalize upper-cases the first letter of a word, leaving the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

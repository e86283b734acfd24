package utils

import (
	"strings"
	"unicode/utf8"
)

// FirstWord returns the text before the first space.
func FirstWord(s string) string {
	word, _, _ := strings.Cut(s, " ")
	return word
}

// DropRunes removes the first n runes of s.
// Removing more runes than s holds yields the empty string.
func DropRunes(s string, n int) string {
	for i := 0; i < n && s != ""; i++ {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}

// HasPrefixAndMore reports whether s starts with prefix and continues past it.
func HasPrefixAndMore(s, prefix string) bool {
	return len(s) > len(prefix) && strings.HasPrefix(s, prefix)
}

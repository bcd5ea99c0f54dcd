// Package scanner provides the substring searches the extractor composes its
// boundary logic from. It does not know about comments or string literals;
// a literal-aware scanner can replace it without touching the callers.
package scanner

import "strings"

// FindNext returns the leftmost occurrence of marker at or after from.
func FindNext(haystack, marker string, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(haystack) {
		return 0, false
	}
	i := strings.Index(haystack[from:], marker)
	if i == -1 {
		return 0, false
	}
	return from + i, true
}

// IndexByte returns the first position of c at or after from.
func IndexByte(text string, c byte, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from >= len(text) {
		return 0, false
	}
	i := strings.IndexByte(text[from:], c)
	if i == -1 {
		return 0, false
	}
	return from + i, true
}

// LineStart returns the index just after the nearest newline at or before
// at, or 0 when there is none.
func LineStart(text string, at int) int {
	return lastIndex(text, "\n", at) + 1
}

// BlankLineStart returns the start of the nearest blank line at or before
// at: the position of the second newline of the closest "\n\n" pair. It
// returns 0 when there is no such pair.
func BlankLineStart(text string, at int) int {
	return lastIndex(text, "\n\n", at) + 1
}

// lastIndex finds the last occurrence of sep that starts at or before at.
func lastIndex(text, sep string, at int) int {
	if at < 0 {
		return -1
	}
	end := at + len(sep)
	if end > len(text) {
		end = len(text)
	}
	return strings.LastIndex(text[:end], sep)
}

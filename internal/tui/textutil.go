package tui

import "strings"

const ellipsis = "…"

// truncateEnd shortens s to at most limit runes, ending with an ellipsis
// when anything was cut.
func truncateEnd(s string, limit int) string {
	r := []rune(s)
	switch {
	case limit <= 0:
		return ""
	case len(r) <= limit:
		return s
	case limit == 1:
		return ellipsis
	}
	return string(r[:limit-1]) + ellipsis
}

// truncateMiddle keeps both ends of s and replaces the middle with an
// ellipsis. Poster paths and page URLs carry meaning at both ends.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	switch {
	case limit <= 0:
		return ""
	case len(r) <= limit:
		return s
	case limit == 1:
		return ellipsis
	}
	head := (limit - 1) / 2
	tail := limit - 1 - head
	return string(r[:head]) + ellipsis + string(r[len(r)-tail:])
}

// sanitizeQuery collapses whitespace and caps the query at maxLen runes.
func sanitizeQuery(input string, maxLen int) string {
	input = strings.Join(strings.Fields(input), " ")
	if maxLen > 0 {
		if r := []rune(input); len(r) > maxLen {
			input = strings.TrimSpace(string(r[:maxLen]))
		}
	}
	return input
}

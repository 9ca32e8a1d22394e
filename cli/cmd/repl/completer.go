package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/endarthur/spinifex-sub001/lang"
)

// candidates returns the completion vocabulary: every function name plus
// the named constants.
func candidates() []string {
	return append(lang.FuncNames(), "pi", "e")
}

// isWordBoundary reports whether the rune delimits a word for completion
// purposes. Digits are not boundaries so band words like b4 stay intact.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', ',',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!', '?', ':':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on
// a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// bestMatch returns the top fuzzy completion for word.
func bestMatch(word string) (string, bool) {
	matches := fuzzy.Find(word, candidates())
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Str, true
}

// completionHint renders the matching candidates for the word at the
// cursor, or "" when there is nothing useful to show.
func completionHint(input string, cursor int) string {
	word, _, _ := wordBounds(input, cursor)
	if word == "" {
		return ""
	}

	matches := fuzzy.Find(word, candidates())
	if len(matches) == 0 {
		return ""
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Str == word {
			// Exact match needs no hint.
			return ""
		}

		names = append(names, m.Str)
	}

	return strings.Join(names, " ")
}

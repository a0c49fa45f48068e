package repl

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/constgen/lang"
)

// completer cycles fuzzy completion candidates (declared constant names
// and operator names) for the word under the cursor.
type completer struct {
	candidates []string

	matches   fuzzy.Matches
	matchIdx  int
	wordStart int
	active    bool
}

// newCompleter builds the candidate list from the resolved set: every
// constant name in declaration order, then every operator name sorted.
func newCompleter(res *lang.Resolution) *completer {
	var candidates []string

	for _, c := range res.Constants() {
		candidates = append(candidates, c.Name)
	}

	ops := make([]string, 0, len(res.Ops()))
	for name := range res.Ops() {
		ops = append(ops, name)
	}

	sort.Strings(ops)

	return &completer{candidates: append(candidates, ops...)}
}

// isWordBoundary reports whether the rune delimits completion words.
// Expression syntax only ever separates atoms with whitespace and
// parentheses.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')':
		return true
	}

	return false
}

// wordBounds returns the word containing the cursor and its byte
// boundaries within input.
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

// next replaces the word under the cursor with the next completion
// candidate, starting a new fuzzy match on first call and cycling on
// repeated calls. It returns the rewritten line, the new cursor
// position, and whether a candidate applied.
func (c *completer) next(input string, cursor int) (string, int, bool) {
	if !c.active {
		word, start, _ := wordBounds(input, cursor)
		if word == "" {
			return "", 0, false
		}

		c.matches = fuzzy.Find(word, c.candidates)
		if len(c.matches) == 0 {
			return "", 0, false
		}

		c.matchIdx = 0
		c.wordStart = start
		c.active = true
	} else {
		c.matchIdx = (c.matchIdx + 1) % len(c.matches)
	}

	candidate := c.matches[c.matchIdx].Str

	// The previous candidate (or the original word) ends at the first
	// boundary after wordStart.
	_, _, end := wordBounds(input, c.wordStart)

	replaced := input[:c.wordStart] + candidate + input[end:]

	return replaced, c.wordStart + len(candidate), true
}

// hint renders the remaining candidates of an active completion cycle.
func (c *completer) hint() string {
	if !c.active || len(c.matches) < 2 {
		return ""
	}

	const maxShown = 8

	names := make([]string, 0, maxShown)

	for i, m := range c.matches {
		if i >= maxShown {
			names = append(names, "…")

			break
		}

		names = append(names, m.Str)
	}

	return strings.Join(names, "  ")
}

// reset abandons the active completion cycle.
func (c *completer) reset() {
	c.active = false
	c.matches = nil
}

package dedup

import (
	"strings"
)

// combinators are the structural CSS combinators whose surrounding
// whitespace is normalized to exactly one space.
var combinators = []string{">", "+", "~"}

// NormalizeSelector canonicalizes a CSS selector for comparison: leading
// and trailing whitespace is trimmed, runs of whitespace collapse to one
// space, and each structural combinator gets exactly one space on each
// side.
func NormalizeSelector(selector string) string {
	s := strings.Join(strings.Fields(selector), " ")
	for _, c := range combinators {
		// Collapse any spacing variant around the combinator first,
		// then reinsert the canonical form.
		s = strings.ReplaceAll(s, " "+c+" ", c)
		s = strings.ReplaceAll(s, " "+c, c)
		s = strings.ReplaceAll(s, c+" ", c)
		s = strings.ReplaceAll(s, c, " "+c+" ")
	}
	return strings.TrimSpace(s)
}

package declfile

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name in edit distance when it is
// near enough to be a likely misspelling of name.
func Suggest(name string, candidates []string) (string, bool) {
	best, dist := "", -1
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, c)
		if dist < 0 || d < dist || (d == dist && c < best) {
			best, dist = c, d
		}
	}
	n := utf8.RuneCountInString(name)
	if dist < 0 || dist >= n || dist > max(2, n/3) {
		return "", false
	}
	return best, true
}

// withHint appends a suggestion for name to msg when one of candidates is
// close to it.
func withHint(msg, name string, candidates []string) string {
	if hint, ok := Suggest(name, candidates); ok {
		msg += fmt.Sprintf("; did you mean %q?", hint)
	}
	return msg
}

package template

import "strings"

const maxSegmentLen = 50

var illegalChars = strings.NewReplacer(
	"<", "-", ">", "-", ":", "-", `"`, "-",
	"/", "-", `\`, "-", "|", "-", "?", "-", "*", "-",
)

// Sanitize makes a free-text value safe as a single path segment: characters
// illegal in path segments become "-", whitespace runs collapse to one
// space, and the result is trimmed and capped at 50 characters. The cap
// counts runes, never splitting a multibyte character.
func Sanitize(s string) string {
	out := illegalChars.Replace(s)
	out = strings.Join(strings.Fields(out), " ")
	if r := []rune(out); len(r) > maxSegmentLen {
		out = strings.TrimSpace(string(r[:maxSegmentLen]))
	}
	return out
}

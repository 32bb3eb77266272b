// Package minify compresses CSS before it is written to object storage.
//
// The transform is deliberately naive and regex-level: stored bytes and the
// size accounting built on them depend on this exact behavior, so it must not
// be swapped for a CSS-aware minifier. Strings and url() literals are not
// treated specially.
package minify

import (
	"regexp"
	"strings"
)

var (
	cssComments   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssWhitespace = regexp.MustCompile(`\s+`)
	cssSeparators = regexp.MustCompile(`\s*([{}:;,])\s*`)
)

// CSS applies, in order: strip /* */ comments, collapse whitespace runs to a
// single space, drop whitespace around { } : ; , separators, rewrite ";}" to
// "}", and trim. It is total and idempotent, and never grows its input.
func CSS(s string) string {
	s = cssComments.ReplaceAllString(s, "")
	s = cssWhitespace.ReplaceAllString(s, " ")
	s = cssSeparators.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ";}", "}")
	return strings.TrimSpace(s)
}

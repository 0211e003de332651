// Package slug turns free text such as game and trophy names into
// filesystem-safe fragments for export filenames.
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^\p{Ll}\p{Lo}\p{Nd}\s\p{Z}-]`)
	separators = regexp.MustCompile(`[-\s\p{Z}]+`)
)

// Make lowercases text, drops everything that is not a lowercase or caseless
// letter, digit, whitespace or hyphen, and joins the remaining words with
// single hyphens. Uppercase letters without a lowercase mapping are dropped.
// Make(Make(s)) == Make(s).
func Make(text string) string {
	s := disallowed.ReplaceAllString(strings.ToLower(text), "")
	s = separators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	return strings.ReplaceAll(s, ".", "")
}

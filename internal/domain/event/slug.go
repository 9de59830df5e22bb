package event

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes free text into a tag slug: lowercase, accents
// folded, runs of non-alphanumeric characters collapsed into dashes.
// Tag matching and URL filter values both operate on slugs.
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(folded)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

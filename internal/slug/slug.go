// Package slug canonicalizes free-text company names into comparison keys
// and URL-safe slugs. Slugs are the system-wide join key: the resolver, the
// serialized artifact, and the viewer's hash routing all depend on the same
// name always producing the same slug.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctRe    = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	spaceRe    = regexp.MustCompile(`\s+`)
	stopwordRe = regexp.MustCompile(`\b(inc|corp|corporation|ltd|llc|co|company|technologies|technology|software|systems|holdings|group|plc|nv|sa)\b`)
	hyphenRe   = regexp.MustCompile(`-+`)
)

// Normalize lower-cases a name, folds diacritics, strips punctuation,
// collapses whitespace, and removes corporate-suffix stopwords as whole
// words. The result is a comparison key for equality testing, not display.
// Total: any input, including pure punctuation, yields a (possibly empty)
// string.
func Normalize(name string) string {
	s := foldDiacritics(strings.ToLower(name))
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	s = stopwordRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Make derives the URL-safe slug for a name: the normalized form with
// whitespace runs replaced by single hyphens.
func Make(name string) string {
	s := spaceRe.ReplaceAllString(Normalize(name), "-")
	return hyphenRe.ReplaceAllString(s, "-")
}

// foldDiacritics strips combining marks so accented spellings of the same
// name converge on one key. Falls back to the input unchanged if the
// transform fails.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// phraseScripts need exact-phrase matching upstream; the volumes endpoint
// otherwise tokenises them character by character.
var phraseScripts = []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana, unicode.Han}

// NormalizeQuery folds compatibility forms (full-width Latin, ideographic
// space) to their plain equivalents and collapses whitespace.
func NormalizeQuery(raw string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(raw)), " ")
}

// ShapeQuery rewrites a user query for the upstream. Japanese-script
// queries and 2 or 3 word queries become exact phrases; everything else
// passes through. Already quoted input is returned as is.
func ShapeQuery(raw string) string {
	q := strings.TrimSpace(raw)
	if q == "" || isQuoted(q) {
		return q
	}
	if hasPhraseScript(q) {
		return quote(q)
	}
	if n := len(strings.Fields(q)); n > 1 && n <= 3 {
		return quote(q)
	}
	return q
}

func hasPhraseScript(s string) bool {
	for _, r := range s {
		if unicode.In(r, phraseScripts...) {
			return true
		}
	}
	return false
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func quote(s string) string { return `"` + s + `"` }

package search

import (
	"strings"

	"github.com/5w1tchy/books-search/internal/googlebooks"
)

const (
	exactWordScore = 3
	stemWordScore  = 1
)

// FilterRelevant drops items sharing no words with query. TotalItems is
// left alone: it still describes the unfiltered upstream result set.
func FilterRelevant(page googlebooks.Page, query string) googlebooks.Page {
	words := queryWords(query)
	kept := make([]googlebooks.Item, 0, len(page.Items))
	for _, it := range page.Items {
		if RelevanceScore(searchableText(it), words) > 0 {
			kept = append(kept, it)
		}
	}
	return googlebooks.Page{Items: kept, TotalItems: page.TotalItems}
}

// RelevanceScore awards 3 per query word found verbatim in text and 1 more
// when the word, minus its last rune, is found (words longer than 3 runes).
// text and words are expected lower-cased.
func RelevanceScore(text string, words []string) int {
	score := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			score += exactWordScore
		}
		if r := []rune(w); len(r) > 3 && strings.Contains(text, string(r[:len(r)-1])) {
			score += stemWordScore
		}
	}
	return score
}

func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, `"`); f != "" {
			words = append(words, f)
		}
	}
	return words
}

func searchableText(it googlebooks.Item) string {
	return strings.ToLower(strings.Join([]string{
		it.Title,
		strings.Join(it.Authors, " "),
		it.Description,
		strings.Join(it.Categories, " "),
	}, " "))
}

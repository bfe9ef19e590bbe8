package search

import (
	"strings"

	"github.com/5w1tchy/books-search/internal/googlebooks"
	"golang.org/x/net/html"
)

const (
	unknownTitle     = "タイトル不明"
	unknownPublisher = "出版社不明"
)

func FormatItem(it googlebooks.Item) Item {
	out := Item{
		Title:       it.Title,
		Authors:     strings.Join(it.Authors, ", "),
		Publisher:   it.Publisher,
		CoverImage:  ResolveCover(it.ImageLinks, it.Identifiers),
		Description: StripHTML(it.Description),
	}
	if out.Title == "" {
		out.Title = unknownTitle
	}
	if out.Publisher == "" {
		out.Publisher = unknownPublisher
	}
	if isbn := ExtractISBN(it.Identifiers); isbn != "" {
		out.ISBN = &isbn
	}
	return out
}

// StripHTML keeps only the text content of s, decoding entities.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure; either way keep what we have
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

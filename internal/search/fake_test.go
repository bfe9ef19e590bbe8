package search

import (
	"context"
	"fmt"

	"github.com/5w1tchy/books-search/internal/googlebooks"
)

type call struct {
	query      string
	startIndex int
	maxResults int
}

// fakeUpstream serves scripted pages in call order. Once the script runs
// out it answers with fallback (or an empty page).
type fakeUpstream struct {
	pages    []googlebooks.Page
	errs     map[int]error // call index -> error
	fallback *googlebooks.Page
	calls    []call
}

func (f *fakeUpstream) Search(_ context.Context, query string, startIndex, maxResults int) (googlebooks.Page, error) {
	i := len(f.calls)
	f.calls = append(f.calls, call{query, startIndex, maxResults})
	if err, ok := f.errs[i]; ok {
		return googlebooks.Page{}, err
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	if f.fallback != nil {
		return *f.fallback, nil
	}
	return googlebooks.Page{}, nil
}

func books(prefix string, n int) []googlebooks.Item {
	out := make([]googlebooks.Item, n)
	for i := range out {
		out[i] = googlebooks.Item{Title: fmt.Sprintf("%s %d", prefix, i+1)}
	}
	return out
}

func page(total int, items ...[]googlebooks.Item) googlebooks.Page {
	var all []googlebooks.Item
	for _, group := range items {
		all = append(all, group...)
	}
	return googlebooks.Page{Items: all, TotalItems: total}
}

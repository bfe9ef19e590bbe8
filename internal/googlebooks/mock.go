package googlebooks

import (
	"context"
	"strings"
)

// MockClient serves a small fixed catalogue so the service can run in
// development without network access or an API key.
type MockClient struct {
	Items []Item
}

func NewMockClient() *MockClient {
	return &MockClient{Items: []Item{
		{
			ID:          "mock-ruby-intro",
			Title:       "Rubyプログラミング入門",
			Authors:     []string{"まつもとゆきひろ"},
			Publisher:   "技術評論社",
			Description: "Rubyの入門書です",
			Categories:  []string{"Computers"},
			ImageLinks: map[string]string{
				"thumbnail": "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=128&h=180&fit=crop&crop=entropy&auto=format&q=80",
			},
			Identifiers: map[string]string{},
		},
		{
			ID:          "mock-rails-tutorial",
			Title:       "Ruby on Rails Tutorial",
			Authors:     []string{"Michael Hartl"},
			Publisher:   "Addison-Wesley",
			Description: "Ruby on Railsのチュートリアル",
			Categories:  []string{"Computers"},
			ImageLinks: map[string]string{
				"thumbnail": "https://images.unsplash.com/photo-1555066931-4365d14bab8c?w=128&h=180&fit=crop&crop=entropy&auto=format&q=80",
			},
			Identifiers: map[string]string{},
		},
	}}
}

// Search matches the (unquoted) query as a case-insensitive substring of
// title, authors, publisher or description, then slices the matches.
func (m *MockClient) Search(_ context.Context, query string, startIndex, maxResults int) (Page, error) {
	q := strings.ToLower(strings.Trim(strings.TrimSpace(query), `"`))

	var matched []Item
	for _, it := range m.Items {
		if q == "" || mockMatches(it, q) {
			matched = append(matched, it)
		}
	}

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > len(matched) {
		startIndex = len(matched)
	}
	end := startIndex + maxResults
	if maxResults < 0 || end > len(matched) {
		end = len(matched)
	}
	out := make([]Item, end-startIndex)
	copy(out, matched[startIndex:end])
	return Page{Items: out, TotalItems: len(matched)}, nil
}

func mockMatches(it Item, q string) bool {
	for _, field := range []string{it.Title, strings.Join(it.Authors, " "), it.Publisher, it.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

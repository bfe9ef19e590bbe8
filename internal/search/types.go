package search

import (
	"context"

	"github.com/5w1tchy/books-search/internal/googlebooks"
)

const (
	// MaxAttempts bounds the collection fetches per request.
	MaxAttempts = 5
	// MaxTotalItems caps the upstream's reported total.
	MaxTotalItems = 1000

	DefaultPageSize = 10
	overFetchFactor = 2
)

// Upstream is the raw, externally paginated search source.
type Upstream interface {
	Search(ctx context.Context, query string, startIndex, maxResults int) (googlebooks.Page, error)
}

type Request struct {
	Query    string
	Offset   int
	PageSize int
}

// Item is a normalised search hit as served to clients.
type Item struct {
	Title       string  `json:"title"`
	Authors     string  `json:"authors"`
	Publisher   string  `json:"publisher"`
	CoverImage  string  `json:"cover_image"`
	Description string  `json:"description"`
	ISBN        *string `json:"isbn"`
}

// Collection is what the collector assembled for one request.
// Exhausted reports that the loop stopped on an empty filtered page
// rather than because the page filled up.
type Collection struct {
	Items                 []Item
	EffectiveTotal        int
	UpstreamReportedTotal int
	Exhausted             bool
}

type Pagination struct {
	TotalItems    int  `json:"total_items"`
	StartIndex    int  `json:"start_index"`
	ItemsPerPage  int  `json:"items_per_page"`
	CurrentPage   int  `json:"current_page"`
	TotalPages    int  `json:"total_pages"`
	HasNext       bool `json:"has_next"`
	HasPrev       bool `json:"has_prev"`
	APITotalItems int  `json:"api_total_items"`
	IsLastPage    bool `json:"is_last_page"`
	EndOfResults  bool `json:"end_of_results,omitempty"`
}

type Response struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
	Error      string     `json:"error,omitempty"`
}

// Failed reports whether the upstream could not be queried.
func (r Response) Failed() bool { return r.Error != "" }

package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/5w1tchy/books-search/internal/api/apperr"
	"github.com/5w1tchy/books-search/internal/api/httpx"
	"github.com/5w1tchy/books-search/internal/metrics/searchlog"
	"github.com/5w1tchy/books-search/internal/search"
	"github.com/5w1tchy/books-search/internal/validate"
)

const (
	defaultLimit  = search.DefaultPageSize
	maxLimit      = 20
	maxQueryRunes = 256
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) search.Response
}

// Recorder receives one entry per served search. *searchlog.Queue
// satisfies it, nil included.
type Recorder interface {
	Enqueue(e searchlog.Entry)
}

// External serves GET /search/external?query=&offset=&limit= (or page=).
// Upstream failures still answer with the normal envelope, as 500.
func External(svc Searcher, rec Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()

		raw := qs.Get("query")
		if strings.TrimSpace(raw) == "" {
			raw = qs.Get("q")
		}
		query, err := validate.RequireBounded("query", raw, 0, maxQueryRunes)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Invalid query", err.Error())
			return
		}

		limit, offset := validate.ClampLimitOffset(qs.Get("limit"), qs.Get("offset"), defaultLimit, maxLimit)
		if qs.Get("offset") == "" {
			if off, ok := validate.PageOffset(qs.Get("page"), limit); ok {
				offset = off
			}
		}

		req := search.Request{Query: query, Offset: offset, PageSize: limit}
		resp := svc.Search(r.Context(), req)

		if rec != nil {
			rec.Enqueue(searchlog.Entry{
				Query:    query,
				Offset:   offset,
				PageSize: limit,
				Returned: len(resp.Items),
				APITotal: resp.Pagination.APITotalItems,
				Failed:   resp.Failed(),
			})
		}

		status := http.StatusOK
		if resp.Failed() {
			status = http.StatusInternalServerError
		}
		httpx.WriteJSON(w, status, resp)
	}
}

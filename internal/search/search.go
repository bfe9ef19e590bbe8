package search

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/5w1tchy/books-search/internal/googlebooks"
)

// Service runs one search request end to end. It never fails: every
// upstream problem becomes an empty response carrying an error message.
type Service struct {
	collector *Collector
}

func NewService(up Upstream) *Service {
	return &Service{collector: NewCollector(up)}
}

func (s *Service) Search(ctx context.Context, req Request) (resp Response) {
	req = normalizeRequest(req)
	if req.Query == "" {
		return emptyResponse(req, "")
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[search] panic for %q: %v", req.Query, rec)
			resp = emptyResponse(req, ErrorMessage(fmt.Errorf("%v", rec)))
		}
	}()

	res, err := s.collector.Collect(ctx, req)
	if err != nil {
		log.Printf("[search] query=%q offset=%d size=%d: %v", req.Query, req.Offset, req.PageSize, err)
		return emptyResponse(req, ErrorMessage(err))
	}
	return Response{Items: res.Items, Pagination: Paginate(res, req)}
}

// ErrorMessage turns an upstream failure into the text shown to users.
func ErrorMessage(err error) string {
	var httpErr *googlebooks.HTTPError
	switch {
	case errors.Is(err, googlebooks.ErrNoAPIKey):
		return "APIキーが設定されていません"
	case errors.Is(err, googlebooks.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "ネットワークタイムアウトが発生しました"
	case errors.Is(err, googlebooks.ErrConnection):
		return "ネットワーク接続エラーが発生しました"
	case errors.Is(err, googlebooks.ErrMalformed):
		return "JSONの解析に失敗しました"
	case errors.As(err, &httpErr):
		return httpErr.Message
	default:
		return "予期しないエラーが発生しました: " + err.Error()
	}
}

func normalizeRequest(req Request) Request {
	req.Query = NormalizeQuery(req.Query)
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	return req
}

// emptyResponse is the shape used for blank queries and every failure.
func emptyResponse(req Request, msg string) Response {
	return Response{
		Items: []Item{},
		Pagination: Pagination{
			ItemsPerPage: req.PageSize,
			CurrentPage:  1,
			IsLastPage:   true,
		},
		Error: msg,
	}
}

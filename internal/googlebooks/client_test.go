package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesJSON = `{
  "totalItems": 1523,
  "items": [
    {
      "id": "abc",
      "volumeInfo": {
        "title": "Eloquent Ruby",
        "authors": ["Russ Olsen"],
        "publisher": "Addison-Wesley",
        "description": "<p>Ruby the <b>right</b> way</p>",
        "categories": ["Computers"],
        "imageLinks": {"thumbnail": "http://books.google.com/books/content?id=abc&printsec=frontcover"},
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0321584104"},
          {"type": "ISBN_13", "identifier": "9780321584106"}
        ]
      }
    },
    {"id": "bare", "volumeInfo": {"title": "No extras"}}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-key", ReadTimeout: 2 * time.Second})
}

func TestSearch_DecodesPageAndSendsParams(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesJSON))
	})

	page, err := c.Search(context.Background(), `"ruby on rails"`, 20, 10)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/volumes", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, `"ruby on rails"`, q.Get("q"))
	assert.Equal(t, "20", q.Get("startIndex"))
	assert.Equal(t, "10", q.Get("maxResults"))
	assert.Equal(t, "test-key", q.Get("key"))
	assert.Equal(t, "relevance", q.Get("orderBy"))
	assert.Equal(t, "books", q.Get("printType"))
	assert.Equal(t, "lite", q.Get("projection"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, userAgent, got.Header.Get("User-Agent"))

	assert.Equal(t, 1523, page.TotalItems)
	require.Len(t, page.Items, 2)
	first := page.Items[0]
	assert.Equal(t, "Eloquent Ruby", first.Title)
	assert.Equal(t, []string{"Russ Olsen"}, first.Authors)
	assert.Equal(t, "9780321584106", first.Identifiers["ISBN_13"])
	assert.Equal(t, "0321584104", first.Identifiers["ISBN_10"])
	assert.Contains(t, first.ImageLinks["thumbnail"], "books.google.com")

	assert.NotNil(t, page.Items[1].ImageLinks)
	assert.Empty(t, page.Items[1].Identifiers)
}

func TestSearch_ClampsMaxResults(t *testing.T) {
	var maxResults string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		maxResults = r.URL.Query().Get("maxResults")
		_, _ = w.Write([]byte(`{}`))
	})

	page, err := c.Search(context.Background(), "go", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "40", maxResults)
	assert.Equal(t, 0, page.TotalItems)
	assert.Empty(t, page.Items)
}

func TestSearch_UpstreamErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Daily Limit Exceeded"}}`))
	})

	_, err := c.Search(context.Background(), "go", 0, 10)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	assert.Equal(t, "Daily Limit Exceeded", httpErr.Message)
}

func TestSearch_UpstreamErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<html>down</html>`))
	})

	_, err := c.Search(context.Background(), "go", 0, 10)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "APIエラー: 503", httpErr.Message)
}

func TestSearch_MalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [`))
	})

	_, err := c.Search(context.Background(), "go", 0, 10)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSearch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, APIKey: "k", ReadTimeout: 50 * time.Millisecond})

	_, err := c.Search(context.Background(), "go", 0, 10)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSearch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c := New(Config{BaseURL: base, APIKey: "k", ConnectTimeout: time.Second})

	_, err := c.Search(context.Background(), "go", 0, 10)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSearch_MissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})

	_, err := c.Search(context.Background(), "go", 0, 10)
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, called)
}

func TestSearch_CancelledWhileThrottled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, APIKey: "k", RequestsPerSecond: 0.001, Burst: 1})

	_, err := c.Search(context.Background(), "go", 0, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "go", 0, 1)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrTimeout)
	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}

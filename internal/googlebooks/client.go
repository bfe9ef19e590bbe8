package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// MaxResultsLimit is the largest maxResults the volumes endpoint accepts.
	MaxResultsLimit = 40

	userAgent    = "ReadingManagement/1.0"
	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL        string
	APIKey         string
	ConnectTimeout time.Duration // dial
	ReadTimeout    time.Duration // whole exchange

	// RequestsPerSecond throttles outgoing calls; <= 0 disables throttling.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the transport built from the timeouts above.
	HTTPClient *http.Client
}

// Client talks to the Google Books volumes search endpoint.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
	}

	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = int(cfg.RequestsPerSecond)
			if burst < 1 {
				burst = 1
			}
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    hc,
		limiter: lim,
	}
}

func newHTTPClient(connect, read time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		MaxConnsPerHost:       20,
		IdleConnTimeout:       30 * time.Second,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   connect,
		ExpectContinueTimeout: 1 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return &http.Client{Timeout: read, Transport: tr}
}

// Search fetches one raw page for query starting at startIndex.
// maxResults is clamped to 1..MaxResultsLimit.
func (c *Client) Search(ctx context.Context, query string, startIndex, maxResults int) (Page, error) {
	if c.apiKey == "" {
		return Page{}, ErrNoAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Page{}, fmt.Errorf("rate limit wait: %w", ctx.Err())
		}
		return Page{}, fmt.Errorf("%w: rate limit wait: %v", ErrTimeout, err)
	}

	resp := c.get(ctx, c.volumesURL(query, startIndex, maxResults))
	if resp.Err != nil {
		return Page{}, resp.Err
	}
	if resp.Status != http.StatusOK {
		log.Printf("[googlebooks] status %d for q=%q startIndex=%d", resp.Status, query, startIndex)
		return Page{}, newHTTPError(resp.Status, resp.Body)
	}

	var raw volumesResponse
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return raw.page(), nil
}

func (c *Client) volumesURL(query string, startIndex, maxResults int) string {
	if startIndex < 0 {
		startIndex = 0
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}
	v := url.Values{}
	v.Set("q", query)
	v.Set("startIndex", strconv.Itoa(startIndex))
	v.Set("maxResults", strconv.Itoa(maxResults))
	v.Set("key", c.apiKey)
	v.Set("orderBy", "relevance")
	v.Set("printType", "books")
	v.Set("projection", "lite")
	return c.baseURL + "/volumes?" + v.Encode()
}

// get performs one GET and folds every outcome into a Response.
func (c *Client) get(ctx context.Context, u string) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return Response{Err: classify(err)}
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return Response{Err: classify(fmt.Errorf("reading body: %w", err))}
	}
	return Response{Status: res.StatusCode, Body: body}
}

package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/books-search/internal/api/middlewares"
	"github.com/redis/go-redis/v9"
)

// unreachableRedis points at a port nothing listens on.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestTokenBucket_FailsOpenWithoutRedis(t *testing.T) {
	tb := mw.NewRedisTokenBucket(unreachableRedis(t), 5, 20, mw.PerIPKey("tb"))
	wrapped := tb.Middleware(okHandler())

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest("GET", "/search/external?query=go", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected request to pass when Redis is down, got %d", rec.Code)
	}
}

func TestSlidingWindow_FailsOpenWithoutRedis(t *testing.T) {
	sw := mw.NewRedisSlidingWindow(unreachableRedis(t), 100, time.Minute, mw.PerIPKey("sw"))
	wrapped := sw.Middleware(okHandler())

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest("GET", "/search/external?query=go", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected request to pass when Redis is down, got %d", rec.Code)
	}
}

func TestPerIPKey(t *testing.T) {
	key := mw.PerIPKey("tb")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := key(req); got != "tb:203.0.113.7" {
		t.Errorf("XFF: got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.2:5555"
	if got := key(req); got != "tb:198.51.100.2" {
		t.Errorf("RemoteAddr: got %q", got)
	}
}

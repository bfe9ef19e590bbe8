package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func tag(name string, trail *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trail = append(*trail, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestApplyMiddleware_Order(t *testing.T) {
	var trail []string
	h := ApplyMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { trail = append(trail, "handler") }),
		tag("a", &trail),
		nil,
		tag("b", &trail),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := strings.Join(trail, ","); got != "a,b,handler" {
		t.Errorf("Expected a,b,handler; got %s", got)
	}
}

package utils

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// ApplyMiddleware wraps handler so the first middleware listed runs first.
func ApplyMiddleware(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		handler = middlewares[i](handler)
	}
	return handler
}

package router

import (
	"net/http"

	"github.com/5w1tchy/books-search/internal/api/apperr"
	"github.com/5w1tchy/books-search/internal/api/handlers"
	"github.com/5w1tchy/books-search/internal/api/handlers/search"
	"github.com/5w1tchy/books-search/internal/api/middlewares"
)

// Deps are the collaborators the routes need. Only Search is required.
type Deps struct {
	Search    search.Searcher
	SearchLog search.Recorder
	Stats     handlers.StatsReporter
	DB        handlers.Pinger
	Auth      middlewares.TokenParser // nil leaves /search/external public
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Root
	mux.HandleFunc("GET /{$}", handlers.RootHandler)
	mux.Handle("GET /healthz", handlers.Healthz(d.DB, d.Stats))

	// Search
	var external http.Handler = search.External(d.Search, d.SearchLog)
	if d.Auth != nil {
		external = middlewares.RequireAuth(d.Auth, external)
	}
	mux.Handle("GET /search/external", external)
	mux.HandleFunc("/search/external", methodNotAllowed)

	return mux
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	apperr.WriteStatus(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported on "+r.URL.Path)
}

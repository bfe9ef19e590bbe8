package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/books-search/internal/api/httpx"
)

// RootHandler answers GET / with a short service banner.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]any{
		"service":   "books-search",
		"endpoints": []string{"GET /search/external", "GET /healthz"},
	})
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type StatsReporter interface {
	Stats() (written, dropped int64)
}

// Healthz reports liveness. When db is set it is pinged and a failure
// turns the answer into 503; searchLog counters are included when present.
func Healthz(db Pinger, searchLog StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				httpx.ErrorJSON(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
			body["database"] = "ok"
		}
		if searchLog != nil {
			written, dropped := searchLog.Stats()
			body["search_log"] = map[string]int64{"written": written, "dropped": dropped}
		}
		httpx.WriteJSON(w, http.StatusOK, body)
	}
}

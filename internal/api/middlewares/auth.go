package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/5w1tchy/books-search/internal/api/apperr"
	jwtutil "github.com/5w1tchy/books-search/internal/security/jwt"
)

// TokenParser is satisfied by *jwtutil.Verifier.
type TokenParser interface {
	Parse(tokenStr string) (*jwtutil.AccessClaims, error)
}

// RequireAuth verifies a Bearer JWT and injects its subject into the context.
func RequireAuth(tp TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			unauthorized(w, r, "missing Authorization header")
			return
		}
		tokenStr, err := bearer(raw)
		if err != nil {
			unauthorized(w, r, "invalid Authorization header")
			return
		}
		claims, err := tp.Parse(tokenStr)
		if err != nil {
			unauthorized(w, r, "invalid token")
			return
		}

		ctx := WithUserID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="books-search"`)
	apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", detail)
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(h[len("Bearer "):]), nil
}

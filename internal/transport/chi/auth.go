package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nebula-labs/catalog/internal/domain"
)

// APIKeyHeader is the alternative to an Authorization bearer token.
const APIKeyHeader = "X-API-Key"

// exemptPaths are routes that bypass the access gate (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// TokenChecker admits or denies a presented access token.
type TokenChecker interface {
	Enabled() bool
	Check(ctx context.Context, token string) error
}

// AccessGate returns a middleware that rejects requests without an accepted token
// before any handler runs. A disabled checker passes everything through.
func AccessGate(checker TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !checker.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if err := checker.Check(r.Context(), extractToken(r)); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
				writeError(w, http.StatusUnauthorized, denyMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads a bearer token, falling back to the API key header.
func extractToken(r *http.Request) string {
	const bearerPrefix = "bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(bearerPrefix) &&
		strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

func denyMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return domain.ErrMissingToken.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		return domain.ErrInvalidToken.Error()
	default:
		return "access denied"
	}
}

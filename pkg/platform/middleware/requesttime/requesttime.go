// Package requesttime gives every operation within one HTTP request the same
// "now".
package requesttime

import (
	"net/http"
	"time"

	"together/pkg/requestcontext"
)

// Middleware stamps the request with the current UTC time truncated to
// microseconds, the precision Postgres keeps, so records read back from
// either ledger compare equal.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now)))
	})
}

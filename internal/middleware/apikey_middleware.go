package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// APIKey returns a middleware that requires the configured key in the
// X-API-Key header. An empty configured key disables the check, which is
// the default for local use where the dashboard and API share a host.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(constants.HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				utils.Unauthorized(w, "A valid API key is required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// Recovery returns a middleware that recovers from panics in handlers,
// logs the stack trace, and responds with a 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic in handler")

				utils.Error(w, http.StatusInternalServerError,
					constants.CodeInternalError, constants.MsgInternalServerError, nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Package api implements the mock notes REST API using chi.
package api

import (
	"net/http"
	"time"
)

// LatencyMiddleware delays every request by d to simulate a remote
// service. A request whose context ends during the delay is dropped.
func LatencyMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers unknown paths with a JSON 404.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody("Not Found"))
}

// MethodNotAllowed answers unsupported methods with a JSON 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method Not Allowed"))
}

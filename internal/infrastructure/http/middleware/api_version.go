package middleware

import "net/http"

// APIVersion returns a middleware that sets the X-API-Version response
// header. Error envelopes and reason strings are versioned together with the
// routes, so callers can key parsing off this header.
func APIVersion(version string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-API-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}

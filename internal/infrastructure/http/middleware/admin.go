package middleware

import (
	"crypto/subtle"
	"net/http"
)

const adminSecretHeader = "X-Tenantgate-Admin-Secret"

// RequireAdminSecret returns a middleware that requires the admin secret
// header to match the configured secret. If secret is empty, all requests
// are rejected with 401. This guards the explicit allow-list entries (cache
// invalidation hooks) that bypass the JWT pipeline.
func RequireAdminSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, http.StatusUnauthorized, "admin API not configured (TENANTGATE_ADMIN_SECRET)", ReasonAuthorizationHeaderMissing)
				return
			}
			got := r.Header.Get(adminSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing admin secret", ReasonAuthorizationHeaderMissing)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
